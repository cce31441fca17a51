// Package domain holds the wire-level data model shared by every layer of
// ZNS: the core services, the repository port, and the wire codec all speak
// these types rather than raw bytes or SQL rows.
package domain

import "fmt"

// RRType is an open enum: known values have names, unknown values pass
// through untouched. This mirrors how a DNS message itself treats types —
// a resolver must be able to carry an RR type it has never heard of.
type RRType uint16

const (
	TypeA      RRType = 1
	TypeNS     RRType = 2
	TypeCNAME  RRType = 5
	TypeSOA    RRType = 6
	TypePTR    RRType = 12
	TypeHINFO  RRType = 13
	TypeMX     RRType = 15
	TypeTXT    RRType = 16
	TypeAAAA   RRType = 28
	TypeSRV    RRType = 33
	TypeOPT    RRType = 41
	TypeDNSKEY RRType = 48
	TypeSIG0   RRType = 24 // legacy SIG, reused by RFC 2931 for SIG(0)
	TypeAXFR   RRType = 252
	TypeANY    RRType = 255
)

var rrTypeNames = map[RRType]string{
	TypeA:      "A",
	TypeNS:     "NS",
	TypeCNAME:  "CNAME",
	TypeSOA:    "SOA",
	TypePTR:    "PTR",
	TypeHINFO:  "HINFO",
	TypeMX:     "MX",
	TypeTXT:    "TXT",
	TypeAAAA:   "AAAA",
	TypeSRV:    "SRV",
	TypeOPT:    "OPT",
	TypeDNSKEY: "DNSKEY",
	TypeSIG0:   "SIG",
	TypeAXFR:   "AXFR",
	TypeANY:    "ANY",
}

func (t RRType) String() string {
	if name, ok := rrTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// Class is likewise an open enum over the 16-bit CLASS field.
type Class uint16

const (
	ClassIN   Class = 1
	ClassNONE Class = 254
	ClassANY  Class = 255
)

func (c Class) String() string {
	switch c {
	case ClassIN:
		return "IN"
	case ClassNONE:
		return "NONE"
	case ClassANY:
		return "ANY"
	default:
		return fmt.Sprintf("CLASS%d", uint16(c))
	}
}

// Opcode is the 4-bit OPCODE field. ZNS only ever recognizes QUERY and
// UPDATE; everything else is rejected with NOTIMP by the dispatcher.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeUpdate Opcode = 5
)

// RCODE values used in responses.
const (
	RcodeNoError  uint8 = 0
	RcodeFormErr  uint8 = 1
	RcodeServFail uint8 = 2
	RcodeNXDomain uint8 = 3
	RcodeNotImp   uint8 = 4
	RcodeRefused  uint8 = 5
	RcodeYXDomain uint8 = 6
	RcodeYXRRSet  uint8 = 7
	RcodeNXRRSet  uint8 = 8
	RcodeNotAuth  uint8 = 9
	RcodeNotZone  uint8 = 10
)
