package transcoder

import (
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-utf16/codec"
	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder/internal/abi"
)

// Transcoder moves strings between Go-side UTF-16 code units and guest
// linear memory. It holds only configuration and is safe for concurrent
// use; the memory and allocator passed to each call are not.
type Transcoder struct {
	decode        func([]byte) ([]uint16, error)
	metrics       *metrics
	maxStringSize uint32
	chunkSize     int
	strategy      DecoderStrategy
}

// New creates a Transcoder. Defaults: manual decoder, 4 KiB chunks, 1 GiB
// string limit.
func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		maxStringSize: MaxStringSize,
		chunkSize:     defaultChunkSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.decode = t.strategy.decodeFunc()
	return t
}

// Strategy returns the configured decoder strategy.
func (t *Transcoder) Strategy() DecoderStrategy {
	return t.strategy
}

// Decode converts UTF-8 bytes with the configured decoder.
func (t *Transcoder) Decode(b []byte) ([]uint16, error) {
	return t.decode(b)
}

func stringPath(ptr uint32) string {
	return "string@0x" + strconv.FormatUint(uint64(ptr), 16)
}

// atPtr prefixes a codec error with the guest location of the string.
// Positional fields stay relative to the string start.
func atPtr(err error, ptr uint32) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return errors.At(e, stringPath(ptr))
	}
	return err
}

func (t *Transcoder) checkSize(phase errors.Phase, ptr, size uint32) error {
	if size > t.maxStringSize {
		return t.metrics.failed(errors.Overflow(phase, []string{stringPath(ptr)}, size, t.maxStringSize))
	}
	return nil
}

// LiftUTF8 reads length bytes of UTF-8 at ptr and decodes them.
func (t *Transcoder) LiftUTF8(mem Memory, ptr, length uint32) ([]uint16, error) {
	if length == 0 {
		return []uint16{}, nil
	}
	if err := t.checkSize(errors.PhaseDecode, ptr, length); err != nil {
		return nil, err
	}

	data, err := mem.Read(ptr, length)
	if err != nil {
		return nil, t.metrics.failed(err)
	}

	units, err := t.decode(data)
	if err != nil {
		Logger().Debug("lift utf8 failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("len", length),
			zap.Stringer("strategy", t.strategy),
			zap.Error(err))
		return nil, t.metrics.failed(atPtr(err, ptr))
	}

	t.metrics.lifted(EncodingUTF8, length)
	Logger().Debug("lift utf8",
		zap.Uint32("ptr", ptr),
		zap.Uint32("len", length),
		zap.Int("units", len(units)))
	return units, nil
}

// LiftUTF16 reads units little-endian code units at ptr. The pointer must
// be 2-aligned. Pairing is not checked here; it is enforced when the units
// are encoded.
func (t *Transcoder) LiftUTF16(mem Memory, ptr, units uint32) ([]uint16, error) {
	if units == 0 {
		return []uint16{}, nil
	}
	if !abi.IsAligned(ptr, 2) {
		return nil, t.metrics.failed(errors.InvalidInput(errors.PhaseValidate, []string{stringPath(ptr)},
			"utf16 string pointer is not 2-aligned"))
	}
	size, ok := abi.SafeMulU32(units, 2)
	if !ok {
		return nil, t.metrics.failed(errors.Overflow(errors.PhaseDecode, []string{stringPath(ptr)}, units, t.maxStringSize/2))
	}
	if err := t.checkSize(errors.PhaseDecode, ptr, size); err != nil {
		return nil, err
	}

	data, err := mem.Read(ptr, size)
	if err != nil {
		return nil, t.metrics.failed(err)
	}

	out := make([]uint16, units)
	for i := range out {
		out[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}

	t.metrics.lifted(EncodingUTF16, size)
	Logger().Debug("lift utf16",
		zap.Uint32("ptr", ptr),
		zap.Uint32("units", units))
	return out, nil
}

// Lift reads a string stored in enc.
func (t *Transcoder) Lift(mem Memory, enc Encoding, ptr, length uint32) ([]uint16, error) {
	switch enc {
	case EncodingUTF8:
		return t.LiftUTF8(mem, ptr, length)
	case EncodingUTF16:
		return t.LiftUTF16(mem, ptr, length)
	default:
		return nil, t.metrics.failed(errors.Unsupported(errors.PhaseDecode, "string encoding "+enc.String()))
	}
}

// EncodeUTF8Into encodes units into the guest window [ptr, ptr+capacity)
// without allocating. The result's Chars is an index into units and Bytes
// the number of bytes written at ptr; Err reports why encoding stopped, so
// a caller seeing OutbufEnd can provide a larger window and resume from
// Chars. The error return is only for memory faults.
func (t *Transcoder) EncodeUTF8Into(mem Memory, units []uint16, ptr, capacity uint32) (codec.EncodeResult, error) {
	res, err := t.encodeUTF8Into(mem, units, ptr, capacity)
	return res, t.metrics.failed(err)
}

func (t *Transcoder) encodeUTF8Into(mem Memory, units []uint16, ptr, capacity uint32) (codec.EncodeResult, error) {
	scratch := getScratch(t.chunkSize)
	defer putScratch(scratch)
	buf := *scratch

	chars, written := 0, uint32(0)
	for {
		room := min(uint32(len(buf)), capacity-written)
		res := codec.EncodeIntoRange(units, buf, chars, len(units), 0, int(room))
		if res.Bytes > 0 {
			if err := mem.Write(ptr+written, buf[:res.Bytes]); err != nil {
				return codec.EncodeResult{Chars: chars, Bytes: int(written), Err: res.Err}, err
			}
			written += uint32(res.Bytes)
		}
		chars = res.Chars

		if res.Err == codec.OutbufEnd && res.Bytes > 0 && written < capacity {
			continue
		}
		return codec.EncodeResult{Chars: chars, Bytes: int(written), Err: res.Err}, nil
	}
}

// LowerUTF8 allocates guest memory and writes units as UTF-8. It returns the
// pointer and byte length; an empty input yields (0, 0) with no allocation.
func (t *Transcoder) LowerUTF8(mem Memory, alloc Allocator, units []uint16) (uint32, uint32, error) {
	return t.lowerUTF8(mem, alloc, units, nil)
}

func (t *Transcoder) lowerUTF8(mem Memory, alloc Allocator, units []uint16, list *AllocationList) (uint32, uint32, error) {
	if len(units) == 0 {
		return 0, 0, nil
	}

	n := codec.ByteLength(units)
	if uint64(n) > uint64(t.maxStringSize) {
		return 0, 0, t.metrics.failed(errors.Overflow(errors.PhaseEncode, nil, n, t.maxStringSize))
	}
	if n == 0 {
		// Only low surrogates size to zero; report the first without allocating.
		return 0, 0, t.metrics.failed(codec.EncodeInto(units, nil).AsError(units))
	}
	size := uint32(n)

	ptr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, 0, t.metrics.failed(err)
	}

	res, err := t.encodeUTF8Into(mem, units, ptr, size)
	if err == nil && res.Err != codec.None {
		err = res.AsError(units)
	}
	if err != nil {
		alloc.Free(ptr, size, 1)
		Logger().Debug("lower utf8 failed",
			zap.Uint32("ptr", ptr),
			zap.Int("units", len(units)),
			zap.Stringer("stop", res.Err),
			zap.Error(err))
		return 0, 0, t.metrics.failed(err)
	}

	if list != nil {
		list.Add(ptr, size, 1)
	}
	t.metrics.lowered(EncodingUTF8, uint32(res.Bytes))
	Logger().Debug("lower utf8",
		zap.Uint32("ptr", ptr),
		zap.Int("units", len(units)),
		zap.Int("len", res.Bytes))
	return ptr, uint32(res.Bytes), nil
}

// LowerUTF16 allocates guest memory and writes units little-endian. It
// returns the pointer and the length in code units.
func (t *Transcoder) LowerUTF16(mem Memory, alloc Allocator, units []uint16) (uint32, uint32, error) {
	return t.lowerUTF16(mem, alloc, units, nil)
}

func (t *Transcoder) lowerUTF16(mem Memory, alloc Allocator, units []uint16, list *AllocationList) (uint32, uint32, error) {
	if len(units) == 0 {
		return 0, 0, nil
	}
	if uint64(len(units))*2 > uint64(t.maxStringSize) {
		return 0, 0, t.metrics.failed(errors.Overflow(errors.PhaseEncode, nil, len(units)*2, t.maxStringSize))
	}
	size := uint32(len(units)) * 2

	ptr, err := alloc.Alloc(size, 2)
	if err != nil {
		return 0, 0, t.metrics.failed(err)
	}

	scratch := getScratch(t.chunkSize &^ 1)
	defer putScratch(scratch)
	buf := *scratch

	off := ptr
	for rest := units; len(rest) > 0; {
		k := min(len(rest), len(buf)/2)
		for i, u := range rest[:k] {
			buf[2*i] = byte(u)
			buf[2*i+1] = byte(u >> 8)
		}
		if err := mem.Write(off, buf[:2*k]); err != nil {
			alloc.Free(ptr, size, 2)
			return 0, 0, t.metrics.failed(err)
		}
		off += uint32(2 * k)
		rest = rest[k:]
	}

	if list != nil {
		list.Add(ptr, size, 2)
	}
	t.metrics.lowered(EncodingUTF16, size)
	Logger().Debug("lower utf16",
		zap.Uint32("ptr", ptr),
		zap.Int("units", len(units)))
	return ptr, uint32(len(units)), nil
}

// Lower writes units to newly allocated guest memory in enc and returns the
// pointer and the length in enc's units.
func (t *Transcoder) Lower(mem Memory, alloc Allocator, enc Encoding, units []uint16) (uint32, uint32, error) {
	return t.lower(mem, alloc, enc, units, nil)
}

func (t *Transcoder) lower(mem Memory, alloc Allocator, enc Encoding, units []uint16, list *AllocationList) (uint32, uint32, error) {
	switch enc {
	case EncodingUTF8:
		return t.lowerUTF8(mem, alloc, units, list)
	case EncodingUTF16:
		return t.lowerUTF16(mem, alloc, units, list)
	default:
		return 0, 0, t.metrics.failed(errors.Unsupported(errors.PhaseEncode, "string encoding "+enc.String()))
	}
}

// Transcode copies the string at ptr from src to dst encoding into a new
// allocation and returns its pointer and length in dst's units. Input is
// validated either way: a UTF-8 source must decode and a UTF-16 source
// must pair its surrogates when the target is UTF-8. A UTF-16 to UTF-16
// copy is byte-for-byte.
func (t *Transcoder) Transcode(mem Memory, alloc Allocator, src Encoding, ptr, length uint32, dst Encoding) (uint32, uint32, error) {
	if src == EncodingLatin1UTF16 || dst == EncodingLatin1UTF16 {
		return 0, 0, t.metrics.failed(errors.Unsupported(errors.PhaseValidate, "string encoding "+EncodingLatin1UTF16.String()))
	}
	if src == dst {
		return t.copyString(mem, alloc, src, ptr, length)
	}

	units, err := t.Lift(mem, src, ptr, length)
	if err != nil {
		return 0, 0, err
	}
	return t.Lower(mem, alloc, dst, units)
}

func (t *Transcoder) copyString(mem Memory, alloc Allocator, enc Encoding, ptr, length uint32) (uint32, uint32, error) {
	if length == 0 {
		return 0, 0, nil
	}
	if enc == EncodingUTF16 && !abi.IsAligned(ptr, 2) {
		return 0, 0, t.metrics.failed(errors.InvalidInput(errors.PhaseValidate, []string{stringPath(ptr)},
			"utf16 string pointer is not 2-aligned"))
	}
	size, ok := abi.SafeMulU32(length, enc.unitSize())
	if !ok {
		return 0, 0, t.metrics.failed(errors.Overflow(errors.PhaseValidate, []string{stringPath(ptr)}, length, t.maxStringSize))
	}
	if err := t.checkSize(errors.PhaseValidate, ptr, size); err != nil {
		return 0, 0, err
	}

	dstPtr, err := alloc.Alloc(size, enc.Align())
	if err != nil {
		return 0, 0, t.metrics.failed(err)
	}

	// Read after Alloc: the guest may have grown memory.
	data, err := mem.Read(ptr, size)
	if err == nil && enc == EncodingUTF8 {
		if _, derr := t.decode(data); derr != nil {
			err = atPtr(derr, ptr)
		}
	}
	if err == nil {
		err = mem.Write(dstPtr, data)
	}
	if err != nil {
		alloc.Free(dstPtr, size, enc.Align())
		return 0, 0, t.metrics.failed(err)
	}

	t.metrics.lifted(enc, size)
	t.metrics.lowered(enc, size)

	Logger().Debug("copy string",
		zap.Stringer("encoding", enc),
		zap.Uint32("src", ptr),
		zap.Uint32("dst", dstPtr),
		zap.Uint32("len", length))
	return dstPtr, length, nil
}
