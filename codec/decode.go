package codec

import (
	"github.com/wippyai/wasm-utf16/errors"
)

const (
	runeSelf = 0x80     // bytes below this are ASCII
	maxRune  = 0x10ffff // largest Unicode code point

	// 0xd800-0xdc00 encodes the high 10 bits of a pair.
	// 0xdc00-0xe000 encodes the low 10 bits of a pair.
	// the value is those 20 bits plus 0x10000.
	surr1    = 0xd800
	surr2    = 0xdc00
	surr3    = 0xe000
	surrSelf = 0x10000
)

// invalidOffset maps a continuation mask to the distance, counted back from
// the byte after the sequence, of the first bad continuation byte.
var invalidOffset = [8]int{0, 1, 2, 2, 3, 3, 3, 3}

// overlongMinimum is the smallest code point each tail length may encode.
var overlongMinimum = [4]rune{0, 0x80, 0x800, 0x10000}

// magicSubtraction removes the length prefix bits that the shift-and-add
// accumulation leaves behind.
var magicSubtraction = [4]rune{0, 0x00003080, 0x000e2080, 0x03c82080}

// tailLen returns the number of continuation bytes announced by lead byte c,
// or -1 if c cannot start a sequence.
func tailLen(c byte) int {
	switch c >> 4 {
	case 0xc, 0xd:
		return 1
	case 0xe:
		return 2
	case 0xf:
		if c&0x08 != 0 {
			return -1
		}
		return 3
	default:
		return -1
	}
}

func isSurrogate(c rune) bool    { return surr1 <= c && c < surr3 }
func isNoncharacter(c rune) bool { return 0xfdd0 <= c && c <= 0xfdef }
func isReserved(c rune) bool     { return c&0xfffe == 0xfffe }

// isInterchange reports whether c may appear in decoded text.
func isInterchange(c rune) bool {
	return c <= maxRune && !isSurrogate(c) && !isNoncharacter(c) && !isReserved(c)
}

// appendCodePoint appends c as one code unit, or as a surrogate pair when c
// lies outside the Basic Multilingual Plane.
func appendCodePoint(out []uint16, c rune) []uint16 {
	if c < surrSelf {
		return append(out, uint16(c))
	}
	c -= surrSelf
	return append(out, uint16(surr1|c>>10), uint16(surr2|c&0x3ff))
}

// Decode converts UTF-8 bytes to UTF-16 code units.
func Decode(b []byte) ([]uint16, error) {
	return DecodeRange(b, 0, len(b))
}

// DecodeRange converts b[start:end] to UTF-16 code units. Fault indexes are
// positions in b, not relative to start.
func DecodeRange(b []byte, start, end int) ([]uint16, error) {
	if start < 0 || end < start || end > len(b) {
		return nil, errors.InvalidRange(errors.PhaseDecode, start, end, len(b))
	}

	out := make([]uint16, 0, end-start)
	i := start
	for i < end {
		c := b[i]
		if c < runeSelf {
			out = append(out, uint16(c))
			i++
			continue
		}

		tail := tailLen(c)
		if tail < 0 {
			return nil, errors.InvalidUTF8(i, c)
		}
		if tail >= end-i {
			return nil, errors.TruncatedUTF8(i, c, tail+1)
		}

		lead := i
		cp := rune(c)
		mask := 0
		for k := 0; k < tail; k++ {
			i++
			cb := b[i]
			cp = cp<<6 + rune(cb)
			mask <<= 1
			if cb>>6 != 0b10 {
				mask |= 1
			}
		}
		i++

		if mask != 0 {
			bad := i - invalidOffset[mask]
			return nil, errors.InvalidUTF8(bad, b[bad])
		}

		cp -= magicSubtraction[tail]
		if cp < overlongMinimum[tail] || !isInterchange(cp) {
			return nil, errors.InvalidUTF8(lead, c)
		}

		out = appendCodePoint(out, cp)
	}
	return out, nil
}
