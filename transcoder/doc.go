// Package transcoder moves strings between Go and WebAssembly linear memory
// using the Canonical ABI string encodings.
//
// Go-side strings are held as UTF-16 code units ([]uint16). Guest strings
// are a (ptr, len) pair in one of the Canonical ABI encodings:
//
//	Encoding        len unit     align
//	───────────────────────────────────
//	utf8            bytes        1
//	utf16           code units   2   (little-endian)
//	latin1+utf16    unsupported
//
// # Lifting
//
// Lift reads guest memory into code units. UTF-8 is decoded with the
// configured codec decoder (manual or DFA); faults come back as
// *errors.Error whose Path names the guest pointer and whose Index is
// relative to the string start:
//
//	units, err := tc.LiftUTF8(mem, ptr, length)
//
// # Lowering
//
// Lower allocates through the guest's cabi_realloc and writes the string.
// UTF-8 output is sized with codec.ByteLength and encoded in fixed-size
// chunks through a pooled scratch buffer, each chunk resuming where
// codec.EncodeIntoRange stopped:
//
//	ptr, n, err := tc.LowerUTF8(mem, alloc, units)
//
// EncodeUTF8Into is the allocation-free variant for a caller-owned window;
// it returns the codec.EncodeResult so the caller can grow the window and
// resume.
//
// # Lists
//
// LiftList and LowerList handle list<string> as consecutive ptr/len pairs
// (8 bytes, align 4). LowerList tracks its allocations in an
// AllocationList and frees them all if any element fails.
//
// # Configuration
//
//	tc := transcoder.New(
//	    transcoder.WithDecoder(transcoder.DecoderDFA),
//	    transcoder.WithChunkSize(1024),
//	    transcoder.WithMaxStringSize(16<<20),
//	    transcoder.WithPrometheus(prometheus.DefaultRegisterer, "app", "strings"),
//	)
//
// Metrics are off unless WithPrometheus is given.
package transcoder
