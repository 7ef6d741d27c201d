// Package codec converts between UTF-8 bytes and UTF-16 code units.
//
// The UTF-16 side is a []uint16, the representation the Component Model uses
// for utf16 strings and the one most host languages keep text in. The UTF-8
// side is validated strictly in both directions:
//
//   - Decode and DecodeDFA reject overlong forms, encoded surrogates,
//     noncharacters (U+FDD0..U+FDEF), reserved values (U+xxFFFE, U+xxFFFF)
//     and anything above U+10FFFF. They fail on the first fault with an
//     *errors.Error carrying the byte index; there is no partial result.
//   - EncodeInto never fails with a Go error. It reports an EncodeResult so
//     a caller writing into a fixed buffer can grow it and resume from the
//     reported cursor, or report the unpaired surrogate it stopped at.
//
// Decode is a hand-written decoder driven by the tail length of each lead
// byte. DecodeDFA is a table-driven automaton. Both accept exactly the same
// inputs and produce the same code units.
//
// # Sizing
//
// ByteLength returns the number of bytes EncodeInto needs for a whole input.
// A high surrogate is counted as its full 4-byte pair and a low surrogate as
// zero, so the value is exact for valid input and an overestimate of at most
// four bytes per unpaired high surrogate otherwise.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. Buffers are never
// retained past a call.
package codec
