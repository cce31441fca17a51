package services

import (
	"time"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/core/services/pubkeys"
	"github.com/ZeusWPI/ZNS/internal/wire"
)

// SignatureVerifier implements C4: reconstructing the exact byte-image an
// RFC 2931 SIG(0) record was signed over, and checking a candidate key
// against it. It holds no state of its own; Now is overridable for tests.
type SignatureVerifier struct {
	Now func() time.Time
}

func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{Now: time.Now}
}

func (v *SignatureVerifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// ExtractSIG returns the SIG(0) record that must be the last Additional RR
// of a signed request, decodes its RDATA, and checks its validity window.
// It does not mutate msg: the SIG record stays in msg.Additional.
func (v *SignatureVerifier) ExtractSIG(msg *domain.Message) (domain.RR, domain.SIGData, error) {
	if len(msg.Additional) == 0 {
		return domain.RR{}, domain.SIGData{}, domain.RefusedErrorf("signature: no SIG(0) record present")
	}
	sigRR := msg.Additional[len(msg.Additional)-1]
	if sigRR.Type != domain.TypeSIG0 {
		return domain.RR{}, domain.SIGData{}, domain.RefusedErrorf("signature: last additional record is not SIG(0)")
	}

	sig, err := wire.DecodeSIG(sigRR.RData)
	if err != nil {
		return domain.RR{}, domain.SIGData{}, domain.ParseErrorf("signature: malformed SIG rdata: %v", err)
	}

	switch sig.Algorithm {
	case domain.AlgED25519, domain.AlgRSASHA256, domain.AlgRSASHA512:
	default:
		return domain.RR{}, domain.SIGData{}, &domain.DNSError{Kind: domain.ErrUnsupported, Op: "signature: unsupported algorithm"}
	}

	now := uint32(v.now().Unix())
	if now < sig.Inception || now > sig.Expiration {
		return domain.RR{}, domain.SIGData{}, domain.RefusedErrorf("signature: outside validity window [%d, %d], now=%d", sig.Inception, sig.Expiration, now)
	}
	return sigRR, sig, nil
}

// ReconstructImage rebuilds the exact signed byte-image from the raw
// request datagram and the SIG RR that was its last Additional record.
//
// Let K be the byte length of the SIG RDATA (sigRR.RData, as parsed — its
// original rdlength). The image is the SIG RDATA with its trailing
// signature field stripped, followed by the request bytes with the SIG RR
// itself removed (R[0 .. len(R)-11-K]) and byte index 11 — the low byte of
// ARCOUNT — decremented by one. This byte-for-byte reproduction is what the
// client actually signed; only the image copy is changed, never raw or the
// decoded Message's ARCount field. The low-byte decrement assumes the
// byte is non-zero (arcount not a multiple of 256); a zero low byte would
// need to borrow into the high byte, which this reconstruction can't do
// from a single byte index, so that case is rejected as a format error
// rather than silently wrapping 0 to 255.
func (v *SignatureVerifier) ReconstructImage(raw []byte, sigRR domain.RR, sig domain.SIGData) ([]byte, error) {
	k := len(sigRR.RData)
	sigLen := len(sig.Signature)
	if sigLen > k {
		return nil, domain.ParseErrorf("signature: signature field longer than SIG rdata")
	}
	rdataPrefix := sigRR.RData[:k-sigLen]

	cut := len(raw) - 11 - k
	if cut < 12 {
		return nil, domain.ParseErrorf("signature: request too short to contain SIG rdata of length %d", k)
	}

	image := make([]byte, 0, len(rdataPrefix)+cut)
	image = append(image, rdataPrefix...)
	image = append(image, raw[:cut]...)
	arcountLowByte := len(rdataPrefix) + 11
	if image[arcountLowByte] == 0 {
		return nil, domain.ParseErrorf("signature: ARCOUNT low byte is zero, decrement would borrow into the high byte")
	}
	image[arcountLowByte]--
	return image, nil
}

// Verify checks signature over image using pub, enforcing that pub speaks
// the algorithm sig declares.
func (v *SignatureVerifier) Verify(pub pubkeys.PublicKey, image []byte, sig domain.SIGData) bool {
	return pub.Verify(sig.Algorithm, image, sig.Signature)
}
