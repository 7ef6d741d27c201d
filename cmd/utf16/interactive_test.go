package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-utf16/codec"
	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in   string
		want []uint16
	}{
		{"", []uint16{}},
		{"abc", []uint16{'a', 'b', 'c'}},
		{"é\U0001f600", []uint16{0xe9, 0xd83d, 0xde00}},
		{`\ud800`, []uint16{0xd800}},
		{`a\udc00b`, []uint16{'a', 0xdc00, 'b'}},
		{`😀`, []uint16{0xd83d, 0xde00}},
	}

	for _, tt := range tests {
		got, err := parseUnits(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseUnits(`\u12`)
	assert.Error(t, err)
	_, err = parseUnits(`\uzzzz`)
	assert.Error(t, err)

	for _, in := range []string{"bad \xc0\x80", `\u0041` + "\xff", "\xed\xa0\x80"} {
		_, err = parseUnits(in)
		assert.ErrorIs(t, err, errors.New(errors.PhaseDecode, errors.KindInvalidUTF8).Build(), "%q", in)
	}
}

func TestSimulate(t *testing.T) {
	res, written := simulate([]uint16{'a', 0x20ac}, 3)
	assert.Equal(t, codec.EncodeResult{Chars: 1, Bytes: 1, Err: codec.OutbufEnd}, res)
	assert.Equal(t, []byte{'a'}, written)

	res, written = simulate([]uint16{'a', 0x20ac}, 4)
	assert.Equal(t, codec.None, res.Err)
	assert.Equal(t, []byte("a€"), written)
}

func TestInspectorModel(t *testing.T) {
	m := newInspectorModel(transcoder.DecoderDFA)

	for _, r := range "a€" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, []uint16{'a', 0x20ac}, m.units)
	assert.Equal(t, 4, m.capacity)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.capacity)
	view := m.View()
	assert.Contains(t, view, "err=outbuf_end")
	assert.Contains(t, view, "decoder: dfa")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Contains(t, m.View(), "err=none")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
