package wire

import "github.com/ZeusWPI/ZNS/internal/core/domain"

// DecodeSOA parses a standalone SOA RDATA blob (RFC 1035 §3.3.13). It is
// never invoked from DecodeRR — only when a caller explicitly asks for the
// structured view of SOA bytes it already holds. Because the blob is
// isolated from the full message, embedded names are decoded against the
// blob alone: a compression pointer can only reach earlier bytes of the
// same blob, never the surrounding message.
func DecodeSOA(rdata []byte) (domain.SOAData, error) {
	r := NewReader(rdata)
	mname, err := DecodeName(r)
	if err != nil {
		return domain.SOAData{}, err
	}
	rname, err := DecodeName(r)
	if err != nil {
		return domain.SOAData{}, err
	}
	if r.Remaining() < 20 {
		return domain.SOAData{}, domain.ParseErrorf("wire: short SOA rdata")
	}
	serial, _ := r.ReadU32()
	refresh, _ := r.ReadU32()
	retry, _ := r.ReadU32()
	expire, _ := r.ReadU32()
	minimum, err := r.ReadU32()
	if err != nil {
		return domain.SOAData{}, err
	}
	return domain.SOAData{
		MName: mname, RName: rname,
		Serial: serial, Refresh: refresh, Retry: retry, Expire: expire, Minimum: minimum,
	}, nil
}

// EncodeSOA serializes SOAData into RDATA bytes, uncompressed.
func EncodeSOA(s domain.SOAData) ([]byte, error) {
	w := GetWriter()
	defer PutWriter(w)
	if err := w.WriteName(s.MName); err != nil {
		return nil, err
	}
	if err := w.WriteName(s.RName); err != nil {
		return nil, err
	}
	w.WriteU32(s.Serial)
	w.WriteU32(s.Refresh)
	w.WriteU32(s.Retry)
	w.WriteU32(s.Expire)
	w.WriteU32(s.Minimum)
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// DecodeSIG parses a standalone SIG(0) RDATA blob (RFC 2931 §3.1). As with
// SOA, the signer name is decoded against the blob alone, so a compression
// pointer can only reach earlier bytes of the same blob (RFC 2931
// canonical form forbids compression inside SIG RDATA in the first place).
func DecodeSIG(rdata []byte) (domain.SIGData, error) {
	r := NewReader(rdata)
	if r.Remaining() < 18 {
		return domain.SIGData{}, domain.ParseErrorf("wire: short SIG rdata")
	}
	typeCovered, _ := r.ReadU16()
	alg, _ := r.ReadU8()
	labels, _ := r.ReadU8()
	origTTL, _ := r.ReadU32()
	expiration, _ := r.ReadU32()
	inception, _ := r.ReadU32()
	keyTag, err := r.ReadU16()
	if err != nil {
		return domain.SIGData{}, err
	}
	signer, err := DecodeName(r)
	if err != nil {
		return domain.SIGData{}, err
	}
	sig, err := r.Read(r.Remaining())
	if err != nil {
		return domain.SIGData{}, err
	}
	return domain.SIGData{
		TypeCovered: typeCovered,
		Algorithm:   domain.SigAlgorithm(alg),
		Labels:      labels,
		OrigTTL:     origTTL,
		Expiration:  expiration,
		Inception:   inception,
		KeyTag:      keyTag,
		SignerName:  signer,
		Signature:   sig,
	}, nil
}

// EncodeSIG serializes SIGData into RDATA bytes, uncompressed.
func EncodeSIG(s domain.SIGData) ([]byte, error) {
	w := GetWriter()
	defer PutWriter(w)
	w.WriteU16(s.TypeCovered)
	w.WriteU8(uint8(s.Algorithm))
	w.WriteU8(s.Labels)
	w.WriteU32(s.OrigTTL)
	w.WriteU32(s.Expiration)
	w.WriteU32(s.Inception)
	w.WriteU16(s.KeyTag)
	if err := w.WriteName(s.SignerName); err != nil {
		return nil, err
	}
	w.WriteBytes(s.Signature)
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// DecodeDNSKEY parses a standalone DNSKEY RDATA blob (RFC 4034 §2.1).
func DecodeDNSKEY(rdata []byte) (domain.DNSKEYData, error) {
	r := NewReader(rdata)
	if r.Remaining() < 4 {
		return domain.DNSKEYData{}, domain.ParseErrorf("wire: short DNSKEY rdata")
	}
	flags, _ := r.ReadU16()
	protocol, _ := r.ReadU8()
	alg, err := r.ReadU8()
	if err != nil {
		return domain.DNSKEYData{}, err
	}
	key, err := r.Read(r.Remaining())
	if err != nil {
		return domain.DNSKEYData{}, err
	}
	return domain.DNSKEYData{
		Flags: flags, Protocol: protocol, Algorithm: domain.SigAlgorithm(alg), PublicKey: key,
	}, nil
}

// EncodeDNSKEY serializes DNSKEYData into RDATA bytes.
func EncodeDNSKEY(d domain.DNSKEYData) []byte {
	w := GetWriter()
	defer PutWriter(w)
	w.WriteU16(d.Flags)
	w.WriteU8(d.Protocol)
	w.WriteU8(uint8(d.Algorithm))
	w.WriteBytes(d.PublicKey)
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
