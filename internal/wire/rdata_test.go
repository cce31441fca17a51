package wire

import (
	"bytes"
	"testing"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

func TestSOARoundTrip(t *testing.T) {
	soa := domain.SOAData{
		MName:   domain.ParseName("ns1.zeus.gent"),
		RName:   domain.ParseName("hostmaster.zeus.gent"),
		Serial:  2026073101,
		Refresh: 3600,
		Retry:   600,
		Expire:  604800,
		Minimum: 300,
	}
	rdata, err := EncodeSOA(soa)
	if err != nil {
		t.Fatalf("EncodeSOA: %v", err)
	}
	got, err := DecodeSOA(rdata)
	if err != nil {
		t.Fatalf("DecodeSOA: %v", err)
	}
	if !got.MName.Equal(soa.MName) || !got.RName.Equal(soa.RName) {
		t.Errorf("names = %+v", got)
	}
	if got.Serial != soa.Serial || got.Refresh != soa.Refresh || got.Retry != soa.Retry ||
		got.Expire != soa.Expire || got.Minimum != soa.Minimum {
		t.Errorf("got %+v, want %+v", got, soa)
	}
}

func TestSIGRoundTrip(t *testing.T) {
	sig := domain.SIGData{
		TypeCovered: 0,
		Algorithm:   domain.AlgED25519,
		Labels:      2,
		OrigTTL:     0,
		Expiration:  2000000000,
		Inception:   1000000000,
		KeyTag:      1234,
		SignerName:  domain.ParseName("alice.zeus.gent"),
		Signature:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	rdata, err := EncodeSIG(sig)
	if err != nil {
		t.Fatalf("EncodeSIG: %v", err)
	}
	got, err := DecodeSIG(rdata)
	if err != nil {
		t.Fatalf("DecodeSIG: %v", err)
	}
	if got.Algorithm != sig.Algorithm || got.KeyTag != sig.KeyTag ||
		got.Expiration != sig.Expiration || got.Inception != sig.Inception {
		t.Errorf("got %+v, want %+v", got, sig)
	}
	if !got.SignerName.Equal(sig.SignerName) {
		t.Errorf("signer = %v, want %v", got.SignerName, sig.SignerName)
	}
	if !bytes.Equal(got.Signature, sig.Signature) {
		t.Errorf("signature = %v, want %v", got.Signature, sig.Signature)
	}
}

func TestDNSKEYRoundTrip(t *testing.T) {
	key := domain.DNSKEYData{
		Flags:     257,
		Protocol:  3,
		Algorithm: domain.AlgED25519,
		PublicKey: []byte{9, 8, 7, 6, 5},
	}
	rdata := EncodeDNSKEY(key)
	got, err := DecodeDNSKEY(rdata)
	if err != nil {
		t.Fatalf("DecodeDNSKEY: %v", err)
	}
	if got.Flags != key.Flags || got.Protocol != key.Protocol || got.Algorithm != key.Algorithm {
		t.Errorf("got %+v, want %+v", got, key)
	}
	if !bytes.Equal(got.PublicKey, key.PublicKey) {
		t.Errorf("public key = %v, want %v", got.PublicKey, key.PublicKey)
	}
}

func TestDecodeSIGRejectsShortRdata(t *testing.T) {
	if _, err := DecodeSIG([]byte{1, 2, 3}); err == nil {
		t.Fatal("short SIG rdata must error, not panic")
	}
}
