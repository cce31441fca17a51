package services

import (
	"context"
	"strings"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/core/ports"
	"github.com/ZeusWPI/ZNS/internal/core/services/pubkeys"
	"github.com/ZeusWPI/ZNS/internal/wire"
)

// AuthorizationEngine implements C5: derive the principal allowed to sign
// an update for the zone named in the request, gather that principal's
// candidate keys from the external key service and/or in-zone DNSKEY
// records, and ask C4 whether any of them verify. It holds no state of
// its own beyond its collaborators.
type AuthorizationEngine struct {
	Zone domain.Name
	Repo ports.Repository
	Keys ports.KeyService // nil disables the external-key-service lookup
	Sig  *SignatureVerifier
}

func NewAuthorizationEngine(zone domain.Name, repo ports.Repository, keys ports.KeyService, sig *SignatureVerifier) *AuthorizationEngine {
	return &AuthorizationEngine{Zone: zone, Repo: repo, Keys: keys, Sig: sig}
}

// Authorize implements the full C5 algorithm against msg and the raw bytes
// it was parsed from. A nil return means the request is authorized; a
// returned *domain.DNSError carries the RCODE the caller should respond
// with on failure.
func (a *AuthorizationEngine) Authorize(ctx context.Context, msg *domain.Message, raw []byte) error {
	if len(msg.Question) == 0 {
		return domain.RefusedErrorf("authorization: no question section")
	}
	qname := msg.Question[0].QName

	sigRR, sig, err := a.Sig.ExtractSIG(msg)
	if err != nil {
		return err
	}
	image, err := a.Sig.ReconstructImage(raw, sigRR, sig)
	if err != nil {
		return err
	}

	principal := a.principal(qname)

	if principal != "" && a.Keys != nil {
		if verified := a.tryKeyService(ctx, principal, image, sig); verified {
			return nil
		}
	}

	if verified := a.tryZoneDNSKEYs(ctx, image, sig); verified {
		return nil
	}

	return domain.UnauthorizedErrorf("authorization: no key verified the signature")
}

// principal derives the label immediately preceding the authoritative
// suffix (e.g. zone=alice.users.zeus.gent, auth=users.zeus.gent yields
// "alice"), lowercased. An update at or above the authoritative zone
// itself (no strictly-longer name) has no principal.
func (a *AuthorizationEngine) principal(qname domain.Name) string {
	if len(qname) <= len(a.Zone) {
		return ""
	}
	idx := len(qname) - len(a.Zone) - 1
	return strings.ToLower(qname[idx])
}

func (a *AuthorizationEngine) tryKeyService(ctx context.Context, principal string, image []byte, sig domain.SIGData) bool {
	lines, err := a.Keys.SSHKeys(ctx, principal)
	if err != nil {
		return false
	}
	for _, line := range lines {
		pub, err := pubkeys.FromOpenSSH(line)
		if err != nil {
			continue
		}
		if a.Sig.Verify(pub, image, sig) {
			return true
		}
	}
	return false
}

func (a *AuthorizationEngine) tryZoneDNSKEYs(ctx context.Context, image []byte, sig domain.SIGData) bool {
	dnskeyType := domain.TypeDNSKEY
	rrs, err := a.Repo.Get(ctx, a.Zone, &dnskeyType, domain.ClassIN)
	if err != nil {
		return false
	}
	for _, rr := range rrs {
		d, err := wire.DecodeDNSKEY(rr.RData)
		if err != nil {
			continue
		}
		pub, err := pubkeys.FromDNSKEY(d)
		if err != nil {
			continue
		}
		if a.Sig.Verify(pub, image, sig) {
			return true
		}
	}
	return false
}
