package services

import (
	"context"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/core/ports"
)

// UpdateExecutor implements C7: RFC 2136 dynamic UPDATE processing. It runs
// precheck, prescan, then apply, in that order, against the Authority
// section of an UPDATE message.
type UpdateExecutor struct {
	Zone domain.Name
	Repo ports.Repository
	Auth *AuthorizationEngine
}

func NewUpdateExecutor(zone domain.Name, repo ports.Repository, auth *AuthorizationEngine) *UpdateExecutor {
	return &UpdateExecutor{Zone: zone, Repo: repo, Auth: auth}
}

// Execute runs the full precheck/prescan/apply pipeline. A nil return means
// the update succeeded; the caller responds with RCODE=NOERROR and the
// request's sections unchanged. A returned *domain.DNSError carries the
// RCODE to use instead.
func (u *UpdateExecutor) Execute(ctx context.Context, msg *domain.Message, raw []byte) error {
	qname, err := u.precheck(ctx, msg, raw)
	if err != nil {
		return err
	}
	if err := u.prescan(msg); err != nil {
		return err
	}
	return u.apply(ctx, qname, msg)
}

func (u *UpdateExecutor) precheck(ctx context.Context, msg *domain.Message, raw []byte) (domain.Name, error) {
	if len(msg.Question) != 1 || msg.Question[0].QType != domain.TypeSOA {
		return nil, domain.ParseErrorf("update: zone section must carry exactly one SOA question")
	}
	zone := msg.Question[0].QName

	if !zone.HasSuffix(u.Zone) {
		return nil, domain.UnauthorizedErrorf("update: zone %s is not within authoritative zone %s", zone, u.Zone)
	}

	if err := u.Auth.Authorize(ctx, msg, raw); err != nil {
		return nil, domain.RefusedErrorf("update: authorization failed: %v", err)
	}

	return zone, nil
}

// prescan validates every Authority RR without mutating anything.
func (u *UpdateExecutor) prescan(msg *domain.Message) error {
	zone := msg.Question[0].QName
	for _, rr := range msg.Authority {
		if !rr.Name.HasSuffix(zone) {
			return domain.RefusedErrorf("update: record %s outside zone %s", rr.Name, zone)
		}
		switch rr.Class {
		case domain.ClassANY:
			if rr.TTL != 0 || len(rr.RData) != 0 {
				return domain.ParseErrorf("update: class ANY record %s must have ttl=0 and rdlength=0", rr.Name)
			}
		case domain.ClassNONE:
			if rr.TTL != 0 {
				return domain.ParseErrorf("update: class NONE record %s must have ttl=0", rr.Name)
			}
		case msg.Question[0].QClass:
		default:
			return domain.ParseErrorf("update: record %s has invalid class %s", rr.Name, rr.Class)
		}
	}
	return nil
}

// apply performs the actual mutations. By this point prescan has already
// validated every record's shape, so the only failures left are semantic
// (SOA/NS insertion, oversized rdata, CNAME exclusivity, deleting every
// RRset at the zone apex) or repository-level.
func (u *UpdateExecutor) apply(ctx context.Context, zone domain.Name, msg *domain.Message) error {
	zclass := msg.Question[0].QClass
	for _, rr := range msg.Authority {
		switch rr.Class {
		case zclass:
			if err := u.applyAdd(ctx, rr); err != nil {
				return err
			}
		case domain.ClassANY:
			if err := u.applyDeleteAll(ctx, rr, zone); err != nil {
				return err
			}
		case domain.ClassNONE:
			if err := u.applyDeleteExact(ctx, rr); err != nil {
				return err
			}
		}
	}
	return nil
}

// maxRDataLen is the spec-mandated hard cap on RDATA length at insertion.
const maxRDataLen = 1000

func (u *UpdateExecutor) applyAdd(ctx context.Context, rr domain.RR) error {
	if rr.Type == domain.TypeSOA || rr.Type == domain.TypeNS {
		return domain.RefusedErrorf("update: cannot add %s record %s", rr.Type, rr.Name)
	}
	if len(rr.RData) > maxRDataLen {
		return domain.RefusedErrorf("update: rdata for %s %s is %d bytes, exceeds the %d byte limit", rr.Type, rr.Name, len(rr.RData), maxRDataLen)
	}

	existing, err := u.Repo.Get(ctx, rr.Name, nil, domain.ClassIN)
	if err != nil {
		return domain.NewError(domain.ErrRepository, "update: get", err)
	}
	for _, e := range existing {
		if rr.Type == domain.TypeCNAME && e.Type == domain.TypeCNAME {
			return domain.RefusedErrorf("update: cannot add CNAME at %s, a CNAME already exists", rr.Name)
		}
		if rr.Type == domain.TypeCNAME && e.Type != domain.TypeCNAME {
			return domain.RefusedErrorf("update: cannot add CNAME at %s, other records exist", rr.Name)
		}
		if rr.Type != domain.TypeCNAME && e.Type == domain.TypeCNAME {
			return domain.RefusedErrorf("update: cannot add %s at %s, CNAME exists", rr.Type, rr.Name)
		}
	}

	if err := u.Repo.Insert(ctx, rr); err != nil {
		return domain.NewError(domain.ErrRepository, "update: insert", err)
	}
	return nil
}

func (u *UpdateExecutor) applyDeleteAll(ctx context.Context, rr domain.RR, zone domain.Name) error {
	if rr.Type == domain.TypeANY {
		if rr.Name.Equal(zone) {
			return &domain.DNSError{Kind: domain.ErrUnsupported, Op: "update: cannot delete all RRsets at the zone apex"}
		}
		if err := u.Repo.Delete(ctx, rr.Name, nil, domain.ClassIN, nil); err != nil {
			return domain.NewError(domain.ErrRepository, "update: delete all", err)
		}
		return nil
	}

	qtype := rr.Type
	if err := u.Repo.Delete(ctx, rr.Name, &qtype, domain.ClassIN, nil); err != nil {
		return domain.NewError(domain.ErrRepository, "update: delete rrset", err)
	}
	return nil
}

func (u *UpdateExecutor) applyDeleteExact(ctx context.Context, rr domain.RR) error {
	if rr.Type == domain.TypeSOA {
		return nil
	}
	qtype := rr.Type
	if err := u.Repo.Delete(ctx, rr.Name, &qtype, domain.ClassIN, rr.RData); err != nil {
		return domain.NewError(domain.ErrRepository, "update: delete record", err)
	}
	return nil
}
