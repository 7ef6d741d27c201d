// Package memory provides memory access adapters for wazero.
//
// This package bridges wazero's memory API with the wasmutf16 Memory and
// Allocator interfaces, so the transcoder can lift and lower strings in
// WebAssembly linear memory.
//
// # Memory Wrapper
//
// Wraps wazero api.Memory:
//
//	mem := memory.WrapMemory(mod.ExportedMemory("memory"))
//	// mem implements wasmutf16.Memory and wasmutf16.MemorySizer
//
// # Allocator Wrapper
//
// Wraps the guest's cabi_realloc export:
//
//	alloc := memory.WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//	// alloc implements wasmutf16.Allocator
//
// Out of bounds accesses return *errors.Error with PhaseMemory and
// KindOutOfBounds; allocator traps return KindAllocation.
package memory
