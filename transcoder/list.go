package transcoder

import (
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-utf16/errors"
	"github.com/wippyai/wasm-utf16/transcoder/internal/abi"
)

func elemPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// atElem prefixes a structured error with the list element index.
func atElem(err error, i int) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return errors.At(e, elemPath(i))
	}
	return err
}

// LiftList reads a list<string> of count ptr/len pairs at ptr.
func (t *Transcoder) LiftList(mem Memory, enc Encoding, ptr, count uint32) ([][]uint16, error) {
	if count == 0 {
		return [][]uint16{}, nil
	}
	if count > MaxListLength {
		return nil, t.metrics.failed(errors.Overflow(errors.PhaseDecode, []string{"list"}, count, MaxListLength))
	}
	if !abi.IsAligned(ptr, abi.StringPairAlign) {
		return nil, t.metrics.failed(errors.InvalidInput(errors.PhaseValidate, []string{"list"},
			"list pointer is not 4-aligned"))
	}

	metadataSize, ok := abi.SafeMulU32(count, abi.StringPairSize)
	if !ok {
		return nil, t.metrics.failed(errors.Overflow(errors.PhaseDecode, []string{"list"}, count, MaxListLength))
	}
	if _, ok := abi.SafeAddU32(ptr, metadataSize); !ok {
		return nil, t.metrics.failed(errors.OutOfBounds(errors.PhaseMemory, []string{"list"}, int(ptr), int(metadataSize)))
	}

	// Read every pair before lifting any element.
	pairs := make([][2]uint32, count)
	for i := range pairs {
		off := ptr + uint32(i)*abi.StringPairSize
		p, err := mem.ReadU32(off)
		if err != nil {
			return nil, t.metrics.failed(err)
		}
		n, err := mem.ReadU32(off + 4)
		if err != nil {
			return nil, t.metrics.failed(err)
		}
		pairs[i] = [2]uint32{p, n}
	}

	result := make([][]uint16, count)
	for i, pair := range pairs {
		units, err := t.Lift(mem, enc, pair[0], pair[1])
		if err != nil {
			return nil, atElem(err, i)
		}
		result[i] = units
	}
	return result, nil
}

// LowerList allocates a list<string> holding strs in enc and returns the
// list pointer and element count. On failure every allocation made so far
// is freed.
func (t *Transcoder) LowerList(mem Memory, alloc Allocator, enc Encoding, strs [][]uint16) (uint32, uint32, error) {
	if len(strs) == 0 {
		return 0, 0, nil
	}
	if uint64(len(strs)) > MaxListLength {
		return 0, 0, t.metrics.failed(errors.Overflow(errors.PhaseEncode, []string{"list"}, len(strs), MaxListLength))
	}
	count := uint32(len(strs))
	metadataSize := count * abi.StringPairSize

	listPtr, err := alloc.Alloc(metadataSize, abi.StringPairAlign)
	if err != nil {
		return 0, 0, t.metrics.failed(err)
	}
	allocList := NewAllocationList()
	allocList.Add(listPtr, metadataSize, abi.StringPairAlign)

	for i, units := range strs {
		p, n, err := t.lower(mem, alloc, enc, units, allocList)
		if err == nil {
			off := listPtr + uint32(i)*abi.StringPairSize
			if err = mem.WriteU32(off, p); err == nil {
				err = mem.WriteU32(off+4, n)
			}
			if err != nil {
				err = t.metrics.failed(err)
			}
		}
		if err != nil {
			allocList.FreeAndRelease(alloc)
			return 0, 0, atElem(err, i)
		}
	}

	Logger().Debug("lower list",
		zap.Uint32("ptr", listPtr),
		zap.Uint32("count", count),
		zap.Int("allocations", allocList.Count()))
	allocList.Release()
	return listPtr, count, nil
}
