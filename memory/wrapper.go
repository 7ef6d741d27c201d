package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	wasmutf16 "github.com/wippyai/wasm-utf16"
	"github.com/wippyai/wasm-utf16/errors"
)

var (
	_ wasmutf16.Memory      = (*Wrapper)(nil)
	_ wasmutf16.MemorySizer = (*Wrapper)(nil)
	_ wasmutf16.Allocator   = (*AllocatorWrapper)(nil)
)

// WrapMemory wraps a wazero api.Memory to implement wasmutf16.Memory.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps a wazero cabi_realloc export to implement
// wasmutf16.Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) *AllocatorWrapper {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

// Wrapper adapts wazero api.Memory to the wasmutf16.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

func outOfBounds(op string, offset, length uint32, size uint32) *errors.Error {
	return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Path(op).
		Value(offset).
		Detail("offset=%d, length=%d, memory size=%d", offset, length, size).
		Build()
}

// Read returns a view of length bytes at offset. The slice aliases guest
// memory and is only valid until the guest runs again.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds("read", offset, length, m.Mem.Size())
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds("write", offset, uint32(len(data)), m.Mem.Size())
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 4, m.Mem.Size())
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return outOfBounds("write", offset, 4, m.Mem.Size())
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// AllocatorWrapper adapts a cabi_realloc api.Function to wasmutf16.Allocator.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates memory using cabi_realloc(0, 0, align, size).
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.AllocationFailed(size, align, err)
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(size, align, nil)
	}
	ptr := uint32(results[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(size, align, nil)
	}
	return ptr, nil
}

// Free deallocates memory using cabi_realloc(ptr, size, align, 0).
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}
