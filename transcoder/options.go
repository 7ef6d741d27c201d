package transcoder

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/wasm-utf16/codec"
	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder/internal/abi"
)

const (
	MaxStringSize    = abi.MaxStringSize
	MaxListLength    = abi.MaxListLength
	defaultChunkSize = abi.DefaultChunkSize
)

// DecoderStrategy selects the UTF-8 decoder used when lifting.
type DecoderStrategy uint8

const (
	// DecoderManual uses codec.Decode.
	DecoderManual DecoderStrategy = iota
	// DecoderDFA uses codec.DecodeDFA.
	DecoderDFA
)

func (s DecoderStrategy) String() string {
	switch s {
	case DecoderManual:
		return "manual"
	case DecoderDFA:
		return "dfa"
	default:
		return "unknown"
	}
}

// ParseDecoderStrategy maps "manual" or "dfa" to a strategy.
func ParseDecoderStrategy(name string) (DecoderStrategy, error) {
	switch name {
	case "manual":
		return DecoderManual, nil
	case "dfa":
		return DecoderDFA, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseValidate, []string{"strategy"},
			"unknown decoder strategy "+name+" (want manual or dfa)")
	}
}

func (s DecoderStrategy) decodeFunc() func([]byte) ([]uint16, error) {
	if s == DecoderDFA {
		return codec.DecodeDFA
	}
	return codec.Decode
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithMaxStringSize caps the byte size of any string lifted or lowered.
// Zero keeps the default.
func WithMaxStringSize(n uint32) Option {
	return func(t *Transcoder) {
		if n > 0 {
			t.maxStringSize = n
		}
	}
}

// WithChunkSize sets how many encoded bytes are staged before each write to
// guest memory. Values below 4 are raised to 4 so every code point fits.
func WithChunkSize(n int) Option {
	return func(t *Transcoder) {
		t.chunkSize = max(n, abi.MinChunkSize)
	}
}

// WithDecoder selects the UTF-8 decoder.
func WithDecoder(s DecoderStrategy) Option {
	return func(t *Transcoder) {
		t.strategy = s
	}
}

// WithPrometheus enables counters for lifted and lowered strings, bytes moved
// and faults by kind. A nil registerer keeps the counters unregistered.
func WithPrometheus(registerer prometheus.Registerer, namespace, subsystem string) Option {
	return func(t *Transcoder) {
		t.metrics = newMetrics(registerer, namespace, subsystem)
	}
}
