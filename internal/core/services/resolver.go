package services

import (
	"context"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/core/ports"
	"github.com/ZeusWPI/ZNS/internal/wire"
)

// defaultSOADomain is the suffix of the synthesized SOA's rname when qname
// is one label below the zone.
var defaultSOADomain = domain.ParseName("zeus.ugent.be")

// QueryResolver implements C6: the exact/CNAME/wildcard/default-SOA/
// NXDOMAIN decision pipeline for ordinary queries, plus the AXFR path.
type QueryResolver struct {
	Zone       domain.Name
	Repo       ports.Repository
	DefaultSOA bool
	Auth       *AuthorizationEngine
}

func NewQueryResolver(zone domain.Name, repo ports.Repository, defaultSOA bool, auth *AuthorizationEngine) *QueryResolver {
	return &QueryResolver{Zone: zone, Repo: repo, DefaultSOA: defaultSOA, Auth: auth}
}

// ResolveQuestion runs the five-step pipeline for a single Question and
// returns the RRs to place in the response's Answer section, or a
// *domain.DNSError (NXDOMAIN on an empty result, REFUSED if qname lies
// outside the authoritative zone, SERVFAIL on a repository failure).
func (r *QueryResolver) ResolveQuestion(ctx context.Context, q domain.Question) ([]domain.RR, error) {
	if !q.QName.HasSuffix(r.Zone) {
		return nil, domain.RefusedErrorf("resolver: question %s is outside zone %s", q.QName, r.Zone)
	}

	qtype := q.QType
	exact, err := r.Repo.Get(ctx, q.QName, &qtype, q.QClass)
	if err != nil {
		return nil, domain.NewError(domain.ErrRepository, "resolver: get", err)
	}
	if len(exact) > 0 {
		return exact, nil
	}

	any, err := r.Repo.Get(ctx, q.QName, nil, q.QClass)
	if err != nil {
		return nil, domain.NewError(domain.ErrRepository, "resolver: get", err)
	}
	var cnames []domain.RR
	for _, rr := range any {
		if rr.Type == domain.TypeCNAME {
			cnames = append(cnames, rr)
		}
	}
	if len(cnames) > 0 {
		return cnames, nil
	}

	if len(any) == 0 {
		if wc, ok, err := r.wildcardFallback(ctx, q); err != nil {
			return nil, err
		} else if ok {
			return wc, nil
		}
	}

	if q.QType == domain.TypeSOA && r.DefaultSOA {
		if rr, ok, err := r.synthesizeSOA(q.QName, q.QClass); err != nil {
			return nil, err
		} else if ok {
			return []domain.RR{rr}, nil
		}
	}

	return nil, domain.NotFoundErrorf("resolver: no records for %s %s", q.QName, q.QType)
}

// wildcardFallback retries against "*.<tail>", preferring an exact qtype
// match and falling back to CNAME, rewriting each returned RR's name to
// the original qname before emission.
func (r *QueryResolver) wildcardFallback(ctx context.Context, q domain.Question) ([]domain.RR, bool, error) {
	wname := q.QName.Wildcard()
	qtype := q.QType
	hits, err := r.Repo.Get(ctx, wname, &qtype, q.QClass)
	if err != nil {
		return nil, false, domain.NewError(domain.ErrRepository, "resolver: get wildcard", err)
	}
	if len(hits) == 0 {
		cnameType := domain.TypeCNAME
		hits, err = r.Repo.Get(ctx, wname, &cnameType, q.QClass)
		if err != nil {
			return nil, false, domain.NewError(domain.ErrRepository, "resolver: get wildcard cname", err)
		}
	}
	if len(hits) == 0 {
		return nil, false, nil
	}
	out := make([]domain.RR, len(hits))
	for i, rr := range hits {
		rr.Name = q.QName.Clone()
		out[i] = rr
	}
	return out, true, nil
}

// synthesizeSOA builds the default-SOA RR per the fixed rules: mname is
// the authoritative zone, rname depends on how qname relates to it, and
// the timer fields are fixed constants. Any shape other than "qname is
// the zone itself" or "qname is exactly one label longer" is not eligible.
func (r *QueryResolver) synthesizeSOA(qname domain.Name, class domain.Class) (domain.RR, bool, error) {
	data, ok := r.defaultSOAData(qname)
	if !ok {
		return domain.RR{}, false, nil
	}
	rdata, err := wire.EncodeSOA(data)
	if err != nil {
		return domain.RR{}, false, domain.NewError(domain.ErrRepository, "resolver: encode default soa", err)
	}
	return domain.RR{Name: qname, Type: domain.TypeSOA, Class: class, TTL: 11200, RData: rdata}, true, nil
}

func (r *QueryResolver) defaultSOAData(qname domain.Name) (domain.SOAData, bool) {
	var rname domain.Name
	switch {
	case qname.Equal(r.Zone):
		rname = domain.ParseName("admin.zeus.ugent.be")
	case len(qname) == len(r.Zone)+1:
		rname = append(domain.Name{qname[0]}, defaultSOADomain...)
	default:
		return domain.SOAData{}, false
	}
	return domain.SOAData{
		MName:   r.Zone.Clone(),
		RName:   rname,
		Serial:  1,
		Refresh: 86400,
		Retry:   7200,
		Expire:  3600000,
		Minimum: 172800,
	}, true
}

// HandleAXFR implements the AXFR path: authorize, fetch every RR under
// qname except SOA rows, and wrap them in a synthesized SOA envelope.
func (r *QueryResolver) HandleAXFR(ctx context.Context, msg *domain.Message, raw []byte) ([]domain.RR, error) {
	if len(msg.Question) != 1 {
		return nil, domain.RefusedErrorf("resolver: AXFR requires exactly one question")
	}
	q := msg.Question[0]

	if err := r.Auth.Authorize(ctx, msg, raw); err != nil {
		return nil, err
	}

	all, err := r.Repo.GetSuffix(ctx, q.QName, q.QClass)
	if err != nil {
		return nil, domain.NewError(domain.ErrRepository, "resolver: get_suffix", err)
	}

	records := make([]domain.RR, 0, len(all))
	var storedSOA *domain.RR
	for i, rr := range all {
		if rr.Type == domain.TypeSOA {
			if storedSOA == nil {
				storedSOA = &all[i]
			}
			continue
		}
		records = append(records, rr)
	}

	var soaRR domain.RR
	if data, ok := r.defaultSOAData(q.QName); ok {
		rdata, err := wire.EncodeSOA(data)
		if err != nil {
			return nil, domain.NewError(domain.ErrRepository, "resolver: encode soa", err)
		}
		soaRR = domain.RR{Name: q.QName, Type: domain.TypeSOA, Class: q.QClass, TTL: 11200, RData: rdata}
	} else if storedSOA != nil {
		soaRR = *storedSOA
	} else {
		return nil, domain.RefusedErrorf("resolver: AXFR zone has no SOA envelope")
	}

	out := make([]domain.RR, 0, len(records)+2)
	out = append(out, soaRR)
	out = append(out, records...)
	out = append(out, soaRR)
	return out, nil
}
