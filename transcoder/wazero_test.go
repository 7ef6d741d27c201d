package transcoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/internal/wasmtest"
	"github.com/wippyai/wasm-utf16/memory"
)

func instantiateGuest(t *testing.T) (*memory.Wrapper, *memory.AllocatorWrapper) {
	t.Helper()
	mod := wasmtest.Instantiate(t, wasmtest.ReallocModule)
	mem := memory.WrapMemory(mod.ExportedMemory("memory"))
	alloc := memory.WrapAllocator(context.Background(), mod.ExportedFunction("cabi_realloc"))
	require.NotNil(t, mem)
	require.NotNil(t, alloc)
	return mem, alloc
}

func TestWazero_StringRoundTrip(t *testing.T) {
	mem, alloc := instantiateGuest(t)
	text := "guest ↔ host: héllo \U0001f30d"

	for _, s := range strategies {
		tc := New(WithDecoder(s), WithChunkSize(8))

		ptr, n, err := tc.LowerUTF8(mem, alloc, units(text))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ptr, uint32(wasmtest.ReallocBase))

		raw, err := mem.Read(ptr, n)
		require.NoError(t, err)
		assert.Equal(t, text, string(raw))

		got, err := tc.LiftUTF8(mem, ptr, n)
		require.NoError(t, err)
		assert.Equal(t, units(text), got)

		p16, n16, err := tc.Transcode(mem, alloc, EncodingUTF8, ptr, n, EncodingUTF16)
		require.NoError(t, err)
		got, err = tc.LiftUTF16(mem, p16, n16)
		require.NoError(t, err)
		assert.Equal(t, units(text), got)
	}
}

func TestWazero_List(t *testing.T) {
	mem, alloc := instantiateGuest(t)
	tc := New()
	strs := [][]uint16{units("one"), units("двa"), units("三")}

	ptr, count, err := tc.LowerList(mem, alloc, EncodingUTF8, strs)
	require.NoError(t, err)

	got, err := tc.LiftList(mem, EncodingUTF8, ptr, count)
	require.NoError(t, err)
	assert.Equal(t, strs, got)
}

func TestWazero_OutOfMemory(t *testing.T) {
	mem, alloc := instantiateGuest(t)

	// The bump allocator never grows memory, so a string larger than the
	// page gets a pointer that fails on write.
	big := make([]uint16, 70000)
	for i := range big {
		big[i] = 'x'
	}

	_, _, err := New().LowerUTF8(mem, alloc, big)
	assert.ErrorIs(t, err, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).Build())
}
