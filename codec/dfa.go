package codec

import (
	"github.com/wippyai/wasm-utf16/errors"
)

// Automaton states. Every other state is a multiple of 12 naming a position
// inside a multi-byte sequence.
const (
	dfaAccept = 0
	dfaReject = 12
)

// dfaClass maps each byte to its character class:
//
//	0  00..7f  ASCII
//	1  80..8f  continuation
//	9  90..9f  continuation
//	7  a0..bf  continuation
//	8  c0 c1 f5..ff  never valid
//	2  c2..df  2-byte lead
//	10 e0      3-byte lead, second byte a0..bf
//	3  e1..ec ee ef  3-byte lead
//	4  ed      3-byte lead, second byte 80..9f
//	11 f0      4-byte lead, second byte 90..bf
//	6  f1..f3  4-byte lead
//	5  f4      4-byte lead, second byte 80..8f
var dfaClass = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	10, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 3, 11, 6, 6, 6, 5, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// dfaTransition is indexed by state+class.
var dfaTransition = [108]uint8{
	0, 12, 24, 36, 60, 96, 84, 12, 12, 12, 48, 72, // accept
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, // reject
	12, 0, 12, 12, 12, 12, 12, 0, 12, 0, 12, 12, // one continuation left
	12, 24, 12, 12, 12, 12, 12, 24, 12, 24, 12, 12, // two left
	12, 12, 12, 12, 12, 12, 12, 24, 12, 12, 12, 12, // after e0
	12, 24, 12, 12, 12, 12, 12, 12, 12, 24, 12, 12, // after ed
	12, 12, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12, // after f0
	12, 36, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12, // after f1..f3
	12, 36, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, // after f4
}

// DecodeDFA converts UTF-8 bytes to UTF-16 code units using a table-driven
// automaton. It accepts and rejects exactly the inputs Decode does.
func DecodeDFA(b []byte) ([]uint16, error) {
	return DecodeDFARange(b, 0, len(b))
}

// DecodeDFARange is DecodeDFA over b[start:end]. Fault indexes are positions
// in b.
//
// Ill-formed sequences are rejected at the first byte the automaton cannot
// accept, which may be a continuation byte where Decode would report the
// lead byte.
func DecodeDFARange(b []byte, start, end int) ([]uint16, error) {
	if start < 0 || end < start || end > len(b) {
		return nil, errors.InvalidRange(errors.PhaseDecode, start, end, len(b))
	}

	out := make([]uint16, 0, end-start)
	state := uint8(dfaAccept)
	lead := start
	var cp rune

	for i := start; i < end; i++ {
		c := b[i]
		class := dfaClass[c]
		if state == dfaAccept {
			cp = rune(0xff>>class) & rune(c)
			lead = i
		} else {
			cp = cp<<6 | rune(c&0x3f)
		}

		state = dfaTransition[state+class]
		switch state {
		case dfaReject:
			return nil, errors.InvalidUTF8(i, c)
		case dfaAccept:
			// The automaton admits noncharacters and reserved values.
			if isNoncharacter(cp) || isReserved(cp) {
				return nil, errors.InvalidUTF8(lead, b[lead])
			}
			out = appendCodePoint(out, cp)
		}
	}

	if state != dfaAccept {
		return nil, errors.TruncatedUTF8(lead, b[lead], tailLen(b[lead])+1)
	}
	return out, nil
}
