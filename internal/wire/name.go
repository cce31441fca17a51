package wire

import (
	"unicode/utf8"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// maxLabels bounds a single name decode to stop a pathological pointer
// chain from producing an unbounded label count even though Reader.Seek
// already makes an infinite loop impossible.
const maxLabels = 255

// DecodeName reads a length-prefixed label sequence, following at most one
// level of compression pointer per hop via r.Seek, lowercasing each label
// for case-insensitive comparison downstream. An invalid UTF-8 label is a
// parse error.
func DecodeName(r *Reader) (domain.Name, error) {
	var out domain.Name
	cur := r

	for {
		if len(out) > maxLabels {
			return nil, domain.ParseErrorf("wire: name exceeds %d labels", maxLabels)
		}

		lenByte, err := cur.ReadU8()
		if err != nil {
			return nil, err
		}

		if lenByte == 0 {
			return out, nil
		}

		if lenByte&0xC0 == 0xC0 {
			lo, err := cur.ReadU8()
			if err != nil {
				return nil, err
			}
			offset := (int(lenByte&0x3F) << 8) | int(lo)
			next, err := cur.Seek(offset)
			if err != nil {
				return nil, err
			}
			cur = next
			continue
		}

		if lenByte&0xC0 != 0 {
			return nil, domain.ParseErrorf("wire: reserved label length bits set (0x%02x)", lenByte)
		}

		label, err := cur.Read(int(lenByte))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(label) {
			return nil, domain.ParseErrorf("wire: label is not valid UTF-8")
		}
		out = append(out, toLowerASCII(string(label)))
	}
}

func toLowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
