package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/wasm-utf16/codec"
	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder"
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

type options struct {
	mode   string
	from   string
	verify bool
	tty    bool
}

func (o options) validate() error {
	switch o.mode {
	case "decode", "encode", "length", "check":
	default:
		return errors.InvalidInput(errors.PhaseValidate, []string{"mode"}, "unknown mode "+o.mode)
	}
	switch o.from {
	case "utf8", "utf16le", "utf16be":
	default:
		return errors.InvalidInput(errors.PhaseValidate, []string{"from"}, "unknown input form "+o.from)
	}
	return nil
}

// process runs one input through the selected mode and returns what to print.
func process(tc *transcoder.Transcoder, opts options, data []byte) ([]byte, error) {
	switch opts.mode {
	case "decode":
		units, err := tc.Decode(data)
		if err != nil {
			return nil, err
		}
		if opts.verify {
			if err := verifyDecode(data, units); err != nil {
				return nil, err
			}
		}
		if opts.tty {
			return []byte(formatUnits(units) + "\n"), nil
		}
		return unitsToBytes(units, binary.LittleEndian), nil

	case "encode":
		units, err := readUnits(tc, data, opts.from)
		if err != nil {
			return nil, err
		}
		out, err := codec.Encode(units)
		if err != nil {
			return nil, err
		}
		if opts.verify {
			if err := verifyEncode(units, out); err != nil {
				return nil, err
			}
		}
		if opts.tty {
			return []byte(hex.Dump(out)), nil
		}
		return out, nil

	case "length":
		units, err := readUnits(tc, data, opts.from)
		if err != nil {
			return nil, err
		}
		return fmt.Appendf(nil, "units=%d bytes=%d\n", len(units), codec.ByteLength(units)), nil

	case "check":
		units, err := readUnits(tc, data, opts.from)
		if err != nil {
			return nil, err
		}
		// Decoding already validated UTF-8 input; UTF-16 input still needs
		// its surrogates paired.
		if opts.from != "utf8" {
			if _, err := codec.Encode(units); err != nil {
				return nil, err
			}
		}
		return []byte("ok\n"), nil

	default:
		return nil, errors.InvalidInput(errors.PhaseValidate, []string{"mode"}, "unknown mode "+opts.mode)
	}
}

// readUnits interprets data as UTF-8 or raw UTF-16. A leading byte order
// mark on UTF-16 input overrides the requested byte order and is dropped.
func readUnits(tc *transcoder.Transcoder, data []byte, from string) ([]uint16, error) {
	var order binary.ByteOrder
	switch from {
	case "utf8":
		return tc.Decode(data)
	case "utf16le":
		order = binary.LittleEndian
	case "utf16be":
		order = binary.BigEndian
	default:
		return nil, errors.InvalidInput(errors.PhaseValidate, []string{"from"}, "unknown input form "+from)
	}

	if len(data) >= 2 {
		switch {
		case data[0] == 0xff && data[1] == 0xfe:
			order, data = binary.LittleEndian, data[2:]
		case data[0] == 0xfe && data[1] == 0xff:
			order, data = binary.BigEndian, data[2:]
		}
	}
	if len(data)%2 != 0 {
		return nil, errors.InvalidInput(errors.PhaseValidate, []string{"input"},
			fmt.Sprintf("odd byte count %d for UTF-16 input", len(data)))
	}

	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = order.Uint16(data[2*i:])
	}
	return units, nil
}

func unitsToBytes(units []uint16, order binary.AppendByteOrder) []byte {
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		out = order.AppendUint16(out, u)
	}
	return out
}

func formatUnits(units []uint16) string {
	var b strings.Builder
	for i, u := range units {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "U+%04X", u)
	}
	return b.String()
}

func verifyDecode(data []byte, units []uint16) error {
	want, err := utf16LE.NewEncoder().Bytes(data)
	if err != nil {
		return fmt.Errorf("verify: reference encoder: %w", err)
	}
	return compare(want, unitsToBytes(units, binary.LittleEndian))
}

func verifyEncode(units []uint16, out []byte) error {
	want, err := utf16LE.NewDecoder().Bytes(unitsToBytes(units, binary.LittleEndian))
	if err != nil {
		return fmt.Errorf("verify: reference decoder: %w", err)
	}
	return compare(want, out)
}

func compare(want, got []byte) error {
	if bytes.Equal(want, got) {
		return nil
	}
	i := 0
	for i < len(want) && i < len(got) && want[i] == got[i] {
		i++
	}
	return fmt.Errorf("verify: output differs from golang.org/x/text at byte %d (%d vs %d bytes)", i, len(got), len(want))
}
