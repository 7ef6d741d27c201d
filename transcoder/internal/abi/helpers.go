package abi

import "math"

// Limits applied to guest-provided sizes.
const (
	MaxStringSize = 1 << 30 // 1 GB max string size in bytes
	MaxListLength = 1 << 27 // 128M max list elements
)

// Chunking of encoder output before it is copied into guest memory.
const (
	DefaultChunkSize = 4 << 10
	MinChunkSize     = 4 // the longest UTF-8 sequence
)

// String and list<string> layout in linear memory.
const (
	StringPairSize  = 8 // ptr + len
	StringPairAlign = 4
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// IsAligned reports whether ptr is a multiple of align. align must be a
// power of two; 0 and 1 accept everything.
func IsAligned(ptr, align uint32) bool {
	if align <= 1 {
		return true
	}
	return ptr&(align-1) == 0
}
