package pubkeys

import (
	"crypto/ed25519"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

type ed25519Key struct {
	pub ed25519.PublicKey
}

// ed25519FromDNSKEY builds an Ed25519 key from a raw 32-byte DNSKEY public
// key field (RFC 8080 §3).
func ed25519FromDNSKEY(raw []byte) (PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, domain.ParseErrorf("pubkeys: ed25519 DNSKEY key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &ed25519Key{pub: ed25519.PublicKey(raw)}, nil
}

func (k *ed25519Key) Verify(alg domain.SigAlgorithm, image, signature []byte) bool {
	if alg != domain.AlgED25519 {
		return false
	}
	return ed25519.Verify(k.pub, image, signature)
}
