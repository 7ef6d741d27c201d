package transcoder

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder/internal/abi"
)

// mockMemory implements Memory for testing
type mockMemory struct {
	data []byte
}

func newMockMemory(size int) *mockMemory {
	return &mockMemory{data: make([]byte, size)}
}

func (m *mockMemory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return errors.OutOfBounds(errors.PhaseMemory, nil, int(offset), len(m.data))
	}
	return nil
}

func (m *mockMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

func (m *mockMemory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *mockMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *mockMemory) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

// mockAllocator implements Allocator for testing and records every call.
type mockAllocator struct {
	allocs []Allocation
	frees  []Allocation
	offset uint32
	// failAt makes the n-th Alloc call (1-based) fail; 0 never fails.
	failAt int
}

func newMockAllocator() *mockAllocator {
	return &mockAllocator{offset: 1024} // start at 1024 to test non-zero offsets
}

func (a *mockAllocator) Alloc(size, align uint32) (uint32, error) {
	if a.failAt > 0 && len(a.allocs)+1 == a.failAt {
		return 0, errors.AllocationFailed(size, align, nil)
	}
	a.offset = abi.AlignTo(a.offset, align)
	ptr := a.offset
	a.offset += size
	a.allocs = append(a.allocs, Allocation{Ptr: ptr, Size: size, Align: align})
	return ptr, nil
}

func (a *mockAllocator) Free(ptr, size, align uint32) {
	a.frees = append(a.frees, Allocation{Ptr: ptr, Size: size, Align: align})
}

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func putUTF16(mem *mockMemory, ptr uint32, u []uint16) {
	for i, c := range u {
		binary.LittleEndian.PutUint16(mem.data[ptr+uint32(2*i):], c)
	}
}
