// Package wasmtest holds hand-assembled guest modules and helpers for tests
// that exercise linear memory through wazero.
package wasmtest

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// MemoryModule has one page of memory exported as "memory" and nothing else.
var MemoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory"
	0x02, 0x00, // kind: memory, index 0
}

// ReallocBase is the first address handed out by ReallocModule.
const ReallocBase = 1024

// ReallocModule exports one page of memory and a bump allocator as
// cabi_realloc(old, oldSize, align, newSize) -> ptr. A zero newSize frees
// (a no-op) and returns 0; anything else returns the next aligned address
// starting at ReallocBase. Memory never grows, so allocations past the page
// yield pointers that fail on access.
var ReallocModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version

	// type section: (i32 i32 i32 i32) -> i32
	0x01, 0x09, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,

	// function section: func 0 has type 0
	0x03, 0x02, 0x01, 0x00,

	// memory section: 1 page, no max
	0x05, 0x03, 0x01, 0x00, 0x01,

	// global section: mut i32 = 1024
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b,

	// export section: "memory" (memory 0), "cabi_realloc" (func 0)
	0x07, 0x19, 0x02,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x0c, 'c', 'a', 'b', 'i', '_', 'r', 'e', 'a', 'l', 'l', 'o', 'c', 0x00, 0x00,

	// code section
	0x0a, 0x26, 0x01, 0x24,
	0x01, 0x01, 0x7f, // one i32 local
	0x20, 0x03, // local.get newSize
	0x45,       // i32.eqz
	0x04, 0x7f, // if (result i32)
	0x41, 0x00, //   i32.const 0
	0x05,       // else
	0x23, 0x00, //   global.get next
	0x20, 0x02, //   local.get align
	0x6a,       //   i32.add
	0x41, 0x01, //   i32.const 1
	0x6b,       //   i32.sub
	0x41, 0x00, //   i32.const 0
	0x20, 0x02, //   local.get align
	0x6b,       //   i32.sub
	0x71,       //   i32.and
	0x22, 0x04, //   local.tee ptr
	0x20, 0x03, //   local.get newSize
	0x6a,       //   i32.add
	0x24, 0x00, //   global.set next
	0x20, 0x04, //   local.get ptr
	0x0b, // end if
	0x0b, // end func
}

// Instantiate compiles and instantiates bin in a fresh runtime that is
// closed when the test ends.
func Instantiate(t testing.TB, bin []byte) api.Module {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	return mod
}
