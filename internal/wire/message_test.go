package wire

import (
	"testing"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

func encodeDecode(t *testing.T, msg domain.Message) domain.Message {
	t.Helper()
	w, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	defer PutWriter(w)
	buf := append([]byte(nil), w.Bytes()...)
	got, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	return got
}

func TestMessageRoundTripQuery(t *testing.T) {
	msg := domain.Message{
		Header: domain.Header{
			ID:      0x1234,
			Opcode:  domain.OpcodeQuery,
			RD:      true,
			QDCount: 1,
		},
		Question: []domain.Question{
			{QName: domain.ParseName("alice.users.zeus.gent"), QType: domain.TypeA, QClass: domain.ClassIN},
		},
	}

	got := encodeDecode(t, msg)

	if got.Header.ID != msg.Header.ID {
		t.Errorf("ID = %x, want %x", got.Header.ID, msg.Header.ID)
	}
	if !got.Header.RD {
		t.Error("RD should round-trip")
	}
	if len(got.Question) != 1 || !got.Question[0].QName.Equal(msg.Question[0].QName) {
		t.Errorf("question = %+v, want %+v", got.Question, msg.Question)
	}
}

func TestMessageRoundTripAnswerRR(t *testing.T) {
	name := domain.ParseName("alice.users.zeus.gent")
	msg := domain.Message{
		Header: domain.Header{ID: 1, ANCount: 1},
		Answer: []domain.RR{
			{Name: name, Type: domain.TypeA, Class: domain.ClassIN, TTL: 300, RData: []byte{192, 0, 2, 1}},
		},
	}

	got := encodeDecode(t, msg)

	if len(got.Answer) != 1 {
		t.Fatalf("expected 1 answer RR, got %d", len(got.Answer))
	}
	rr := got.Answer[0]
	if !rr.Name.Equal(name) || rr.Type != domain.TypeA || rr.Class != domain.ClassIN || rr.TTL != 300 {
		t.Errorf("rr = %+v", rr)
	}
	if string(rr.RData) != string([]byte{192, 0, 2, 1}) {
		t.Errorf("rdata = %v", rr.RData)
	}
}

func TestMessageRoundTripCNAME(t *testing.T) {
	name := domain.ParseName("alice.users.zeus.gent")
	target := domain.ParseName("bob.users.zeus.gent")
	msg := domain.Message{
		Header: domain.Header{ID: 1, ANCount: 1},
		Answer: []domain.RR{
			{Name: name, Type: domain.TypeCNAME, Class: domain.ClassIN, TTL: 60, CNAME: target},
		},
	}

	got := encodeDecode(t, msg)

	if len(got.Answer) != 1 {
		t.Fatalf("expected 1 answer RR, got %d", len(got.Answer))
	}
	if !got.Answer[0].CNAME.Equal(target) {
		t.Errorf("CNAME = %v, want %v", got.Answer[0].CNAME, target)
	}
}

func TestDecodeMessageShortHeaderErrors(t *testing.T) {
	if _, err := DecodeMessage([]byte{1, 2, 3}); err == nil {
		t.Fatal("a truncated header must error, not panic")
	}
}

func TestDecodeMessageTruncatedRRErrors(t *testing.T) {
	w := GetWriter()
	defer PutWriter(w)
	EncodeHeader(w, domain.Header{ANCount: 1})
	buf := append([]byte(nil), w.Bytes()...)
	if _, err := DecodeMessage(buf); err == nil {
		t.Fatal("a header claiming an answer RR with no bytes following must error")
	}
}
