// Package errors provides structured error types for the wasm-utf16 module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Codec faults are positional: Index is the byte (decode) or code unit (encode)
// where the input went wrong, Value is the offending byte or unit, and Needed
// reports the full length of a truncated UTF-8 sequence.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
//		Path("ptr=0x10000").
//		Detail("read of %d bytes", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidUTF8(3, 0xc0)
//	err := errors.TruncatedUTF8(0, 0xe2, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind only.
package errors
