package wire

import (
	"testing"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

func TestDecodeNameFollowsBackwardPointer(t *testing.T) {
	// "zeus" "gent" 0x00 at offset 0, then "alice" followed by a pointer
	// back to offset 0.
	buf := []byte{
		4, 'z', 'e', 'u', 's',
		4, 'g', 'e', 'n', 't',
		0,
		5, 'a', 'l', 'i', 'c', 'e',
		0xC0, 0x00,
	}
	r := NewReader(buf)
	if _, err := r.Read(11); err != nil {
		t.Fatalf("setup read failed: %v", err)
	}
	name, err := DecodeName(r)
	if err != nil {
		t.Fatalf("DecodeName: %v", err)
	}
	if name.String() != "alice.zeus.gent" {
		t.Fatalf("got %q, want %q", name.String(), "alice.zeus.gent")
	}
}

func TestDecodeNameRejectsForwardPointer(t *testing.T) {
	// a pointer at offset 0 aimed at offset 2, which is the reader's
	// position once the pointer is read, must fail rather than loop.
	buf := []byte{
		0xC0, 0x02,
		5, 'a', 'l', 'i', 'c', 'e',
		0,
	}
	r := NewReader(buf)
	if _, err := DecodeName(r); err == nil {
		t.Fatal("a pointer to an offset at or beyond the current position must fail to parse")
	}
}

func TestDecodeNameRejectsExcessiveLabelCount(t *testing.T) {
	var buf []byte
	for i := 0; i < maxLabels+2; i++ {
		buf = append(buf, 1, 'a')
	}
	buf = append(buf, 0)
	r := NewReader(buf)
	if _, err := DecodeName(r); err == nil {
		t.Fatal("a name with more than maxLabels labels must fail to parse, not allocate unboundedly")
	}
}

func TestDecodeNameRejectsReservedLengthBits(t *testing.T) {
	buf := []byte{0x80, 0x00}
	r := NewReader(buf)
	if _, err := DecodeName(r); err == nil {
		t.Fatal("a label length byte with reserved top bits set must fail to parse")
	}
}

func TestNameEncodeDecodeRoundTrip(t *testing.T) {
	name := domain.ParseName("www.alice.users.zeus.gent")
	w := GetWriter()
	defer PutWriter(w)
	if err := w.WriteName(name); err != nil {
		t.Fatalf("WriteName: %v", err)
	}
	r := NewReader(w.Bytes())
	got, err := DecodeName(r)
	if err != nil {
		t.Fatalf("DecodeName: %v", err)
	}
	if got.String() != name.String() {
		t.Fatalf("got %q, want %q", got.String(), name.String())
	}
}
