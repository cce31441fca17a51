package domain

// Header is the fixed 12-byte DNS message header, its 16 flag bits
// unpacked into named fields rather than kept as a raw bitmask — the
// codec is responsible for packing/unpacking them on the wire.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  Opcode
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       bool
	AD      bool
	CD      bool
	RCode   uint8
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// SetResponse turns a parsed request header into a response header in
// place: sets QR and AA, clears Z and RA, writes rcode into the low 4 bits,
// and otherwise leaves TC/RD/AD/CD alone. TC in particular is the dispatcher's to
// set once it knows whether this response had to be truncated — baking a
// fixed TC value into SetResponse would make that decision unreachable.
func (h *Header) SetResponse(rcode uint8) {
	h.QR = true
	h.AA = true
	h.Z = false
	h.RA = false
	h.RCode = rcode
}

// Question is a single entry in the Question section.
type Question struct {
	QName  Name
	QType  RRType
	QClass Class
}

// RR is a resource record. RData holds the raw on-wire bytes for every
// type except CNAME, whose target is decoded eagerly into CNAME (see
// internal/wire's codec); structured views of SOA/SIG/DNSKEY RDATA are
// decoded on demand by the components that need them, not stored here.
type RR struct {
	Name  Name
	Type  RRType
	Class Class
	TTL   int32
	RData []byte
	CNAME Name // populated iff Type == TypeCNAME
}

// Message is a full DNS message: header plus the four sections.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
}
