package codec

import (
	"github.com/wippyai/wasm-utf16/errors"
)

// EncodeError classifies why EncodeInto stopped.
type EncodeError uint8

const (
	// None means the whole input range was encoded.
	None EncodeError = iota
	// OrphanLead means a high surrogate was not followed by a low one.
	OrphanLead
	// OrphanTrail means a low surrogate appeared without a high one.
	OrphanTrail
	// OutbufEnd means the next code point does not fit in the output range.
	OutbufEnd
)

func (e EncodeError) String() string {
	switch e {
	case None:
		return "none"
	case OrphanLead:
		return "orphan_lead_surrogate"
	case OrphanTrail:
		return "orphan_trail_surrogate"
	case OutbufEnd:
		return "outbuf_end"
	default:
		return "unknown"
	}
}

// EncodeResult reports how far EncodeInto got. Chars is the index of the
// first code unit not consumed and Bytes the index one past the last byte
// written; both are absolute positions in the caller's slices, so a call can
// be resumed from them directly.
type EncodeResult struct {
	Chars int
	Bytes int
	Err   EncodeError
}

// AsError converts a failed result into an *errors.Error naming the offending
// code unit. It returns nil when r.Err is None.
func (r EncodeResult) AsError(units []uint16) error {
	switch r.Err {
	case None:
		return nil
	case OrphanLead:
		return errors.InvalidUTF16(r.Chars, units[r.Chars], "unpaired high surrogate")
	case OrphanTrail:
		return errors.InvalidUTF16(r.Chars, units[r.Chars], "unpaired low surrogate")
	default:
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Index(r.Chars).
			Detail("output buffer full at code unit %d after %d bytes", r.Chars, r.Bytes).
			Build()
	}
}

// EncodeInto writes units to out as UTF-8.
func EncodeInto(units []uint16, out []byte) EncodeResult {
	return EncodeIntoRange(units, out, 0, len(units), 0, len(out))
}

// EncodeIntoRange writes units[startChar:endChar] to out[startByte:endByte]
// as UTF-8. It never writes outside that window and never splits a code
// point: when the next code point does not fit it stops with OutbufEnd
// before writing any of its bytes.
//
// A surrogate pair is only formed from two units inside the range, so a
// range ending between the halves of a pair reports OrphanLead.
//
// Ranges that do not satisfy 0 <= start <= end <= len panic, as the
// equivalent slice expressions would.
func EncodeIntoRange(units []uint16, out []byte, startChar, endChar, startByte, endByte int) EncodeResult {
	_ = units[startChar:endChar]
	_ = out[startByte:endByte]

	i, bi := startChar, startByte
	for i < endChar {
		c := rune(units[i])

		var n int
		switch {
		case c < runeSelf:
			if bi >= endByte {
				return EncodeResult{Chars: i, Bytes: bi, Err: OutbufEnd}
			}
			out[bi] = byte(c)
			bi++
			i++
			continue
		case c < 0x800:
			n = 2
		case c < surr1:
			n = 3
		case c < surr2:
			n = 4
		case c < surr3:
			return EncodeResult{Chars: i, Bytes: bi, Err: OrphanTrail}
		default:
			n = 3
		}

		if bi+n > endByte {
			return EncodeResult{Chars: i, Bytes: bi, Err: OutbufEnd}
		}

		if n == 4 {
			if i+1 >= endChar {
				return EncodeResult{Chars: i, Bytes: bi, Err: OrphanLead}
			}
			c1 := rune(units[i+1])
			if c1&0xfc00 != surr2 {
				return EncodeResult{Chars: i, Bytes: bi, Err: OrphanLead}
			}
			c = ((c&0x3ff)<<10 | c1&0x3ff) + surrSelf
			i++
		}

		for k := n - 1; k > 0; k-- {
			out[bi+k] = byte(0x80 | c&0x3f)
			c >>= 6
		}
		out[bi] = byte(0xf00>>n | c)
		bi += n
		i++
	}
	return EncodeResult{Chars: i, Bytes: bi, Err: None}
}

// Encode converts units to a new UTF-8 slice of exactly the required length.
// An unpaired surrogate fails with an *errors.Error of kind invalid_utf16
// whose Index is the offending code unit.
func Encode(units []uint16) ([]byte, error) {
	out := make([]byte, ByteLength(units))
	res := EncodeInto(units, out)
	if res.Err != None {
		return nil, res.AsError(units)
	}
	return out[:res.Bytes], nil
}

// EncodeWorstCase converts units in a single pass into a buffer of three
// bytes per code unit plus one, and returns the used prefix. It trades
// memory for skipping the ByteLength pass.
//
// A high surrogate asks for four bytes before its pair is checked, so a
// trailing one after k three-byte units needs 3k+4 bytes of room to be
// reported as OrphanLead rather than OutbufEnd.
func EncodeWorstCase(units []uint16) ([]byte, error) {
	out := make([]byte, 3*len(units)+1)
	res := EncodeInto(units, out)
	if res.Err != None {
		return nil, res.AsError(units)
	}
	return out[:res.Bytes:res.Bytes], nil
}
