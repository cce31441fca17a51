package pubkeys

import (
	"crypto/ed25519"
	"crypto/rsa"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"golang.org/x/crypto/ssh"
)

// parseOpenSSH decodes an "ssh-ed25519 ..." or "ssh-rsa ..." authorized_keys
// line using the same wire format OpenSSH itself uses, via x/crypto/ssh
// rather than hand-rolling the base64 SSH key blob layout spec.md
// describes for the DNSKEY side.
func parseOpenSSH(line string) (PublicKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return nil, domain.ParseErrorf("pubkeys: invalid openssh key line: %v", err)
	}
	crypto, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, domain.RefusedErrorf("pubkeys: unsupported ssh key type %s", pub.Type())
	}
	switch key := crypto.CryptoPublicKey().(type) {
	case ed25519.PublicKey:
		return &ed25519Key{pub: key}, nil
	case *rsa.PublicKey:
		return &rsaKey{pub: key}, nil
	default:
		return nil, domain.RefusedErrorf("pubkeys: unsupported ssh key type %s", pub.Type())
	}
}
