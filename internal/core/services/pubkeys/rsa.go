package pubkeys

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// rsaKey wraps an RSA public key. fixedAlg is zero when the key came from
// an OpenSSH line (no algorithm of its own — accepts either RSASHA256 or
// RSASHA512, as declared by the covering SIG record) and pinned when the
// key came from a DNSKEY record (which carries its own algorithm byte).
type rsaKey struct {
	pub      *rsa.PublicKey
	fixedAlg domain.SigAlgorithm
}

// rsaFromDNSKEY parses the RFC 4034 §2.1.3 exponent/modulus encoding: a
// one-byte exponent length (or, if that byte is zero, a following 2-byte
// big-endian length for exponents over 255 bytes), then the exponent,
// then the remaining bytes as the modulus. A leading zero byte on the
// modulus (sign-bit padding) is preserved as-is — big.Int.SetBytes
// ignores leading zeros on its own, so no extra handling is needed.
func rsaFromDNSKEY(raw []byte, alg domain.SigAlgorithm) (PublicKey, error) {
	if len(raw) < 1 {
		return nil, domain.ParseErrorf("pubkeys: empty RSA DNSKEY")
	}
	expLen := int(raw[0])
	rest := raw[1:]
	if expLen == 0 {
		if len(rest) < 2 {
			return nil, domain.ParseErrorf("pubkeys: truncated RSA DNSKEY extended exponent length")
		}
		expLen = int(rest[0])<<8 | int(rest[1])
		rest = rest[2:]
	}
	if len(rest) < expLen {
		return nil, domain.ParseErrorf("pubkeys: truncated RSA DNSKEY exponent")
	}
	expBytes := rest[:expLen]
	modBytes := rest[expLen:]
	if len(modBytes) == 0 {
		return nil, domain.ParseErrorf("pubkeys: empty RSA DNSKEY modulus")
	}

	e := new(big.Int).SetBytes(expBytes).Int64()
	n := new(big.Int).SetBytes(modBytes)

	return &rsaKey{pub: &rsa.PublicKey{N: n, E: int(e)}, fixedAlg: alg}, nil
}

func (k *rsaKey) Verify(alg domain.SigAlgorithm, image, signature []byte) bool {
	if k.fixedAlg != 0 && alg != k.fixedAlg {
		return false
	}
	var hash crypto.Hash
	switch alg {
	case domain.AlgRSASHA256:
		hash = crypto.SHA256
	case domain.AlgRSASHA512:
		hash = crypto.SHA512
	default:
		return false
	}

	var digest []byte
	switch hash {
	case crypto.SHA256:
		sum := sha256.Sum256(image)
		digest = sum[:]
	case crypto.SHA512:
		sum := sha512.Sum512(image)
		digest = sum[:]
	}
	return rsa.VerifyPKCS1v15(k.pub, hash, digest, signature) == nil
}
