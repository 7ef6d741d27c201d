package codec

import (
	"bytes"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-utf16/errors"
)

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func TestEncodeInto(t *testing.T) {
	tests := []struct {
		name  string
		input []uint16
		want  []byte
	}{
		{name: "empty", input: nil, want: []byte{}},
		{name: "ascii", input: units("hello"), want: []byte("hello")},
		{name: "7f", input: []uint16{0x7f}, want: []byte{0x7f}},
		{name: "80", input: []uint16{0x80}, want: []byte{0xc2, 0x80}},
		{name: "7ff", input: []uint16{0x7ff}, want: []byte{0xdf, 0xbf}},
		{name: "800", input: []uint16{0x800}, want: []byte{0xe0, 0xa0, 0x80}},
		{name: "d7ff", input: []uint16{0xd7ff}, want: []byte{0xed, 0x9f, 0xbf}},
		{name: "e000", input: []uint16{0xe000}, want: []byte{0xee, 0x80, 0x80}},
		{name: "fffd", input: []uint16{0xfffd}, want: []byte{0xef, 0xbf, 0xbd}},
		{name: "10000", input: []uint16{0xd800, 0xdc00}, want: []byte{0xf0, 0x90, 0x80, 0x80}},
		{name: "emoji", input: []uint16{0xd83d, 0xde00}, want: []byte{0xf0, 0x9f, 0x98, 0x80}},
		{name: "10ffff", input: []uint16{0xdbff, 0xdfff}, want: []byte{0xf4, 0x8f, 0xbf, 0xbf}},
		{name: "mixed", input: units("aé€\U0001f600z"), want: []byte("aé€\U0001f600z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]byte, len(tt.want))
			res := EncodeInto(tt.input, out)
			assert.Equal(t, EncodeResult{Chars: len(tt.input), Bytes: len(tt.want), Err: None}, res)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEncode_ASCIIIdentity(t *testing.T) {
	b, err := Encode(units("hello"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	u, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, units("hello"), u)
}

func TestEncodeInto_Orphans(t *testing.T) {
	tests := []struct {
		name  string
		input []uint16
		want  EncodeResult
	}{
		{
			name:  "lone high at end",
			input: []uint16{'a', 0xd800},
			want:  EncodeResult{Chars: 1, Bytes: 1, Err: OrphanLead},
		},
		{
			name:  "high followed by ascii",
			input: []uint16{0xd800, 'a'},
			want:  EncodeResult{Chars: 0, Bytes: 0, Err: OrphanLead},
		},
		{
			name:  "two highs",
			input: []uint16{0xd83d, 0xd83d, 0xde00},
			want:  EncodeResult{Chars: 0, Bytes: 0, Err: OrphanLead},
		},
		{
			name:  "lone low",
			input: []uint16{'a', 0xdc00, 'b'},
			want:  EncodeResult{Chars: 1, Bytes: 1, Err: OrphanTrail},
		},
		{
			name:  "low before high",
			input: []uint16{0xde00, 0xd83d},
			want:  EncodeResult{Chars: 0, Bytes: 0, Err: OrphanTrail},
		},
		{
			name:  "after a valid pair",
			input: []uint16{0xd83d, 0xde00, 0xdfff},
			want:  EncodeResult{Chars: 2, Bytes: 4, Err: OrphanTrail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := bytes.Repeat([]byte{0xaa}, 16)
			res := EncodeInto(tt.input, out)
			assert.Equal(t, tt.want, res)
			// Nothing of the orphan was written.
			for _, b := range out[res.Bytes:] {
				require.Equal(t, byte(0xaa), b)
			}
		})
	}
}

func TestEncodeInto_RangeEndsInsidePair(t *testing.T) {
	in := []uint16{'x', 0xd83d, 0xde00}
	out := make([]byte, 8)

	res := EncodeIntoRange(in, out, 0, 2, 0, len(out))
	assert.Equal(t, EncodeResult{Chars: 1, Bytes: 1, Err: OrphanLead}, res)

	res = EncodeIntoRange(in, out, 1, 3, 0, len(out))
	assert.Equal(t, EncodeResult{Chars: 3, Bytes: 4, Err: None}, res)
}

func TestEncodeInto_OutbufEnd(t *testing.T) {
	t.Run("k bytes for k+1", func(t *testing.T) {
		in := units("héllo")
		need := ByteLength(in)
		require.Equal(t, 6, need)

		out := make([]byte, need-1)
		res := EncodeInto(in, out)
		assert.Equal(t, OutbufEnd, res.Err)
		assert.Equal(t, need-1, res.Bytes)
		assert.Equal(t, len(in)-1, res.Chars)
		assert.Equal(t, []byte("héll"), out)
	})

	t.Run("multi-byte never split", func(t *testing.T) {
		tests := []struct {
			name  string
			input []uint16
			room  int
			want  EncodeResult
		}{
			{"2-byte with 1 left", units("aé"), 2, EncodeResult{Chars: 1, Bytes: 1, Err: OutbufEnd}},
			{"3-byte with 2 left", units("a€"), 3, EncodeResult{Chars: 1, Bytes: 1, Err: OutbufEnd}},
			{"4-byte with 3 left", units("a\U0001f600"), 4, EncodeResult{Chars: 1, Bytes: 1, Err: OutbufEnd}},
			{"ascii with 0 left", units("ab"), 1, EncodeResult{Chars: 1, Bytes: 1, Err: OutbufEnd}},
			{"empty window", units("a"), 0, EncodeResult{Chars: 0, Bytes: 0, Err: OutbufEnd}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				buf := bytes.Repeat([]byte{0xaa}, tt.room+4)
				res := EncodeIntoRange(tt.input, buf, 0, len(tt.input), 0, tt.room)
				assert.Equal(t, tt.want, res)
				for i := res.Bytes; i < len(buf); i++ {
					require.Equal(t, byte(0xaa), buf[i], "byte %d written", i)
				}
			})
		}
	})

	t.Run("space checked before pairing", func(t *testing.T) {
		out := make([]byte, 3)
		res := EncodeInto([]uint16{0xd800, 'a'}, out)
		assert.Equal(t, EncodeResult{Chars: 0, Bytes: 0, Err: OutbufEnd}, res)
	})
}

func TestEncodeIntoRange_StaysInWindow(t *testing.T) {
	in := units("€€€")
	out := bytes.Repeat([]byte{0xaa}, 12)

	res := EncodeIntoRange(in, out, 0, len(in), 2, 9)
	assert.Equal(t, EncodeResult{Chars: 2, Bytes: 8, Err: OutbufEnd}, res)
	assert.Equal(t, []byte{0xaa, 0xaa}, out[:2])
	assert.Equal(t, []byte("€€"), out[2:8])
	assert.Equal(t, bytes.Repeat([]byte{0xaa}, 4), out[8:])
}

func TestEncodeIntoRange_Resume(t *testing.T) {
	in := units("añ€\U0001f600 naïve ∑ \U00010348!")
	want, err := Encode(in)
	require.NoError(t, err)

	t.Run("growing window", func(t *testing.T) {
		out := make([]byte, len(want))
		res := EncodeIntoRange(in, out, 0, len(in), 0, 3)
		require.Equal(t, OutbufEnd, res.Err)
		for res.Err == OutbufEnd {
			end := min(res.Bytes+4, len(out))
			res = EncodeIntoRange(in, out, res.Chars, len(in), res.Bytes, end)
		}
		require.Equal(t, None, res.Err)
		assert.Equal(t, len(in), res.Chars)
		assert.Equal(t, want, out[:res.Bytes])
	})

	t.Run("fixed chunk", func(t *testing.T) {
		for size := 4; size <= len(want)+1; size++ {
			chunk := make([]byte, size)
			var got []byte
			chars := 0
			for {
				res := EncodeIntoRange(in, chunk, chars, len(in), 0, size)
				got = append(got, chunk[:res.Bytes]...)
				chars = res.Chars
				if res.Err == None {
					break
				}
				require.Equal(t, OutbufEnd, res.Err, "chunk size %d", size)
				require.NotZero(t, res.Bytes, "no progress with chunk size %d", size)
			}
			require.Equal(t, want, got, "chunk size %d", size)
		}
	})
}

func TestEncodeIntoRange_BadBoundsPanic(t *testing.T) {
	in := units("abc")
	out := make([]byte, 4)

	assert.Panics(t, func() { EncodeIntoRange(in, out, 2, 1, 0, 4) })
	assert.Panics(t, func() { EncodeIntoRange(in, out, 0, 4, 0, 4) })
	assert.Panics(t, func() { EncodeIntoRange(in, out, 0, 3, 0, 5) })
	assert.Panics(t, func() { EncodeIntoRange(in, out, -1, 3, 0, 4) })
}

func TestEncode(t *testing.T) {
	t.Run("exact size", func(t *testing.T) {
		in := units("aé€\U0001f600")
		b, err := Encode(in)
		require.NoError(t, err)
		assert.Equal(t, []byte("aé€\U0001f600"), b)
		assert.Equal(t, len(b), cap(b))
	})

	t.Run("orphan high", func(t *testing.T) {
		_, err := Encode([]uint16{'a', 'b', 0xd800})
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.PhaseEncode, e.Phase)
		assert.Equal(t, errors.KindInvalidUTF16, e.Kind)
		assert.Equal(t, 2, e.Index)
		assert.Equal(t, uint16(0xd800), e.Value)
		assert.Contains(t, e.Error(), "high surrogate")
	})

	t.Run("orphan low", func(t *testing.T) {
		_, err := Encode([]uint16{0xdc00})
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 0, e.Index)
		assert.Contains(t, e.Error(), "low surrogate")
	})
}

func TestEncodeWorstCase(t *testing.T) {
	for _, s := range []string{"", "ascii", "ünïcödé", "€€€", "\U0001f600\U0001f601", "mixed é € \U0001f600"} {
		in := units(s)
		b, err := EncodeWorstCase(in)
		require.NoError(t, err)
		assert.Equal(t, []byte(s), b, s)
	}

	invalid := errors.New(errors.PhaseEncode, errors.KindInvalidUTF16).Build()
	for _, in := range [][]uint16{
		{0xdfff},
		{0xd800},
		{0x800, 0xd800},
		{0x800, 0x800, 0x800, 0xdbff},
	} {
		_, err := EncodeWorstCase(in)
		assert.ErrorIs(t, err, invalid, "%x", in)

		// Same classification as Encode.
		_, want := Encode(in)
		assert.Equal(t, want.Error(), err.Error(), "%x", in)
	}
}

func TestEncodeResult_AsError(t *testing.T) {
	assert.NoError(t, EncodeResult{Chars: 3, Bytes: 3}.AsError(nil))

	err := EncodeResult{Chars: 1, Bytes: 1, Err: OutbufEnd}.AsError([]uint16{'a', 'b'})
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindOverflow, e.Kind)
	assert.Equal(t, 1, e.Index)
}

func TestEncodeError_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "orphan_lead_surrogate", OrphanLead.String())
	assert.Equal(t, "orphan_trail_surrogate", OrphanTrail.String())
	assert.Equal(t, "outbuf_end", OutbufEnd.String())
	assert.Equal(t, "unknown", EncodeError(42).String())
}
