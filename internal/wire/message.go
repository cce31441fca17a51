package wire

import "github.com/ZeusWPI/ZNS/internal/core/domain"

const headerSize = 12

// DecodeHeader reads the fixed 12-byte header. Every count is parsed
// independently with no cross-count validation — that's the dispatcher's
// job once the whole message is in hand.
func DecodeHeader(r *Reader) (domain.Header, error) {
	if r.Remaining() < headerSize {
		return domain.Header{}, domain.ParseErrorf("wire: short header (%d bytes remaining)", r.Remaining())
	}
	id, _ := r.ReadU16()
	flags, _ := r.ReadU16()
	qd, _ := r.ReadU16()
	an, _ := r.ReadU16()
	ns, _ := r.ReadU16()
	ar, err := r.ReadU16()
	if err != nil {
		return domain.Header{}, err
	}
	return domain.Header{
		ID:      id,
		QR:      flags&0x8000 != 0,
		Opcode:  domain.Opcode(flags >> 11 & 0x0F),
		AA:      flags&0x0400 != 0,
		TC:      flags&0x0200 != 0,
		RD:      flags&0x0100 != 0,
		RA:      flags&0x0080 != 0,
		Z:       flags&0x0040 != 0,
		AD:      flags&0x0020 != 0,
		CD:      flags&0x0010 != 0,
		RCode:   uint8(flags & 0x000F),
		QDCount: qd,
		ANCount: an,
		NSCount: ns,
		ARCount: ar,
	}, nil
}

// EncodeHeader writes h's fixed 12 bytes.
func EncodeHeader(w *Writer, h domain.Header) {
	var flags uint16
	if h.QR {
		flags |= 0x8000
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= 0x0400
	}
	if h.TC {
		flags |= 0x0200
	}
	if h.RD {
		flags |= 0x0100
	}
	if h.RA {
		flags |= 0x0080
	}
	if h.Z {
		flags |= 0x0040
	}
	if h.AD {
		flags |= 0x0020
	}
	if h.CD {
		flags |= 0x0010
	}
	flags |= uint16(h.RCode) & 0x000F

	w.WriteU16(h.ID)
	w.WriteU16(flags)
	w.WriteU16(h.QDCount)
	w.WriteU16(h.ANCount)
	w.WriteU16(h.NSCount)
	w.WriteU16(h.ARCount)
}

// DecodeQuestion reads a single Question entry.
func DecodeQuestion(r *Reader) (domain.Question, error) {
	name, err := DecodeName(r)
	if err != nil {
		return domain.Question{}, err
	}
	if r.Remaining() < 4 {
		return domain.Question{}, domain.ParseErrorf("wire: short question")
	}
	qtype, _ := r.ReadU16()
	qclass, err := r.ReadU16()
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Question{QName: name, QType: domain.RRType(qtype), QClass: domain.Class(qclass)}, nil
}

// EncodeQuestion writes a single Question entry.
func EncodeQuestion(w *Writer, q domain.Question) error {
	if err := w.WriteName(q.QName); err != nil {
		return err
	}
	w.WriteU16(uint16(q.QType))
	w.WriteU16(uint16(q.QClass))
	return nil
}

// DecodeRR reads one resource record. RDATA is opaque for every type
// except CNAME, whose target is decoded eagerly (with full pointer
// support, since it is read from the live message reader) into CNAME.
func DecodeRR(r *Reader) (domain.RR, error) {
	name, err := DecodeName(r)
	if err != nil {
		return domain.RR{}, err
	}
	if r.Remaining() < 10 {
		return domain.RR{}, domain.ParseErrorf("wire: short RR header")
	}
	typ, _ := r.ReadU16()
	class, _ := r.ReadU16()
	ttl, _ := r.ReadI32()
	rdlength, err := r.ReadU16()
	if err != nil {
		return domain.RR{}, err
	}
	if r.Remaining() < int(rdlength) {
		return domain.RR{}, domain.ParseErrorf("wire: rdlength %d exceeds remaining %d", rdlength, r.Remaining())
	}

	rr := domain.RR{
		Name:  name,
		Type:  domain.RRType(typ),
		Class: domain.Class(class),
		TTL:   ttl,
	}

	if rr.Type == domain.TypeCNAME {
		rdataStart := r.pos
		cname, err := DecodeName(r)
		if err != nil {
			return domain.RR{}, err
		}
		if r.pos-rdataStart != int(rdlength) {
			return domain.RR{}, domain.ParseErrorf("wire: CNAME rdata length mismatch")
		}
		rr.CNAME = cname
		rr.RData = r.buf[rdataStart:r.pos]
		return rr, nil
	}

	raw, err := r.Read(int(rdlength))
	if err != nil {
		return domain.RR{}, err
	}
	rr.RData = raw
	return rr, nil
}

// EncodeRR writes name, type, class, ttl, then a computed rdlength
// followed by rdata. The RR's own stored rdlength (if any) is ignored —
// rdlength is always derived from the serialized payload.
func EncodeRR(w *Writer, rr domain.RR) error {
	if err := w.WriteName(rr.Name); err != nil {
		return err
	}
	w.WriteU16(uint16(rr.Type))
	w.WriteU16(uint16(rr.Class))
	w.WriteI32(rr.TTL)

	lenPos := w.Len()
	w.WriteU16(0) // patched below

	start := w.Len()
	if rr.Type == domain.TypeCNAME {
		if err := w.WriteName(rr.CNAME); err != nil {
			return err
		}
	} else {
		w.WriteBytes(rr.RData)
	}
	w.PatchU16(lenPos, uint16(w.Len()-start))
	return nil
}

// DecodeMessage reads a full message: header then the four sections, in
// the counts the header itself specifies.
func DecodeMessage(buf []byte) (domain.Message, error) {
	r := NewReader(buf)
	header, err := DecodeHeader(r)
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{Header: header}

	for i := 0; i < int(header.QDCount); i++ {
		q, err := DecodeQuestion(r)
		if err != nil {
			return domain.Message{}, err
		}
		msg.Question = append(msg.Question, q)
	}
	for i := 0; i < int(header.ANCount); i++ {
		rr, err := DecodeRR(r)
		if err != nil {
			return domain.Message{}, err
		}
		msg.Answer = append(msg.Answer, rr)
	}
	for i := 0; i < int(header.NSCount); i++ {
		rr, err := DecodeRR(r)
		if err != nil {
			return domain.Message{}, err
		}
		msg.Authority = append(msg.Authority, rr)
	}
	for i := 0; i < int(header.ARCount); i++ {
		rr, err := DecodeRR(r)
		if err != nil {
			return domain.Message{}, err
		}
		msg.Additional = append(msg.Additional, rr)
	}
	return msg, nil
}

// EncodeMessage serializes msg into a freshly borrowed pooled Writer. The
// caller must PutWriter(w) once the bytes have been sent.
func EncodeMessage(msg domain.Message) (*Writer, error) {
	w := GetWriter()
	EncodeHeader(w, msg.Header)
	for _, q := range msg.Question {
		if err := EncodeQuestion(w, q); err != nil {
			PutWriter(w)
			return nil, err
		}
	}
	for _, rr := range msg.Answer {
		if err := EncodeRR(w, rr); err != nil {
			PutWriter(w)
			return nil, err
		}
	}
	for _, rr := range msg.Authority {
		if err := EncodeRR(w, rr); err != nil {
			PutWriter(w)
			return nil, err
		}
	}
	for _, rr := range msg.Additional {
		if err := EncodeRR(w, rr); err != nil {
			PutWriter(w)
			return nil, err
		}
	}
	if n := w.Len(); n > MaxMessageSize {
		PutWriter(w)
		return nil, domain.ParseErrorf("wire: encoded message of %d bytes exceeds %d", n, MaxMessageSize)
	}
	return w, nil
}
