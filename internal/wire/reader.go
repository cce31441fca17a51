// Package wire implements C1 (Byte Reader) and C2 (Wire Codec): reading
// and writing the DNS message wire format over a fixed byte buffer.
package wire

import (
	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// Reader is a cursor over an immutable byte slice. Unlike a plain
// position-in-shared-buffer reader, Seek returns a brand new Reader bounded
// to everything read so far and refuses to seek to or past the current
// position — a compression pointer can only ever point backward into
// bytes already consumed, which is what makes following one loop-free by
// construction instead of by a jump counter alone.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reading from offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Position returns the current read offset.
func (r *Reader) Position() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek returns a new Reader positioned at offset, bounded to
// buf[:currentPosition]. It is an error to seek to or beyond the current
// position: compression pointers must strictly decrease, which is what
// prevents a pointer chain from looping or racing ahead of unparsed data.
func (r *Reader) Seek(offset int) (*Reader, error) {
	if offset >= r.pos {
		return nil, domain.ParseErrorf("wire: pointer offset %d does not precede current position %d", offset, r.pos)
	}
	return &Reader{buf: r.buf[:r.pos], pos: offset}, nil
}

// Read consumes and returns the next n bytes.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, domain.ParseErrorf("wire: read of %d bytes exceeds remaining %d", n, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 consumes one byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 consumes a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadU32 consumes a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadI32 consumes a big-endian int32 (used for RR TTL).
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}
