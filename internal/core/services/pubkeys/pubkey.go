// Package pubkeys ingests the public-key material SIG(0) verification
// needs (C4's key-parsing half), from either an OpenSSH authorized-keys
// line or a DNSKEY RDATA blob, and exposes a uniform Verify.
package pubkeys

import "github.com/ZeusWPI/ZNS/internal/core/domain"

// PublicKey verifies a signature over an image. alg is the algorithm the
// covering SIG record declares; a key rejects any algorithm it cannot
// speak (an Ed25519 key rejects RSASHA256, and vice versa) before even
// attempting the cryptographic check.
type PublicKey interface {
	Verify(alg domain.SigAlgorithm, image, signature []byte) bool
}

// FromOpenSSH parses a single "ssh-ed25519 AAAA..." / "ssh-rsa AAAA..."
// authorized_keys line into a PublicKey. An OpenSSH line carries no SIG
// algorithm of its own — an RSA key parsed this way accepts either
// RSASHA256 or RSASHA512 at Verify time, picked by the SIG record itself.
func FromOpenSSH(line string) (PublicKey, error) {
	return parseOpenSSH(line)
}

// FromDNSKEY builds a PublicKey from a decoded DNSKEY RDATA view. Unlike
// the OpenSSH path, a DNSKEY record pins its own algorithm, so the
// resulting key only verifies that one.
func FromDNSKEY(d domain.DNSKEYData) (PublicKey, error) {
	switch d.Algorithm {
	case domain.AlgED25519:
		return ed25519FromDNSKEY(d.PublicKey)
	case domain.AlgRSASHA256, domain.AlgRSASHA512:
		return rsaFromDNSKEY(d.PublicKey, d.Algorithm)
	default:
		return nil, domain.RefusedErrorf("pubkeys: unsupported DNSKEY algorithm %d", d.Algorithm)
	}
}
