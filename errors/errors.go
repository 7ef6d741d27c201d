package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // UTF-8 to UTF-16
	PhaseEncode   Phase = "encode"   // UTF-16 to UTF-8
	PhaseValidate Phase = "validate" // argument validation
	PhaseMemory   Phase = "memory"   // guest memory access
	PhaseAlloc    Phase = "alloc"    // guest allocation
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindTruncatedUTF8 Kind = "truncated_utf8"
	KindInvalidUTF16  Kind = "invalid_utf16"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindOverflow      Kind = "overflow"
	KindAllocation    Kind = "allocation"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
)

// Error is the structured error type used throughout the module.
//
// Index is the position of the fault inside the input (a byte index for
// decode errors, a code unit index for encode errors) or -1 when the error
// is not positional. Needed is the full length of a truncated UTF-8
// sequence, zero otherwise.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Index  int
	Needed int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: -1,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Index sets the input position of the fault
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Needed sets the length of an incomplete sequence
func (b *Builder) Needed(n int) *Builder {
	b.err.Needed = n
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidUTF8 creates an error for a malformed byte at index.
func InvalidUTF8(index int, value byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Index:  index,
		Value:  value,
		Detail: "byte 0x" + strconv.FormatUint(uint64(value), 16) + " at index " + strconv.Itoa(index),
	}
}

// TruncatedUTF8 creates an error for a sequence starting at index whose
// lead byte announces needed bytes but the input ends first.
func TruncatedUTF8(index int, lead byte, needed int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedUTF8,
		Index:  index,
		Value:  lead,
		Needed: needed,
		Detail: fmt.Sprintf("byte 0x%x at index %d: sequence needs %d bytes", lead, index, needed),
	}
}

// InvalidUTF16 creates an error for an unpaired surrogate at code unit index.
func InvalidUTF16(index int, unit uint16, reason string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidUTF16,
		Index:  index,
		Value:  unit,
		Detail: fmt.Sprintf("%s 0x%04x near index %d", reason, unit, index),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Index:  index,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidRange creates an error for a start/end pair that does not satisfy
// 0 <= start <= end <= length.
func InvalidRange(phase Phase, start, end, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Index:  -1,
		Detail: fmt.Sprintf("range [%d:%d] out of bounds (length %d)", start, end, length),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, limit uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Index:  -1,
		Detail: fmt.Sprintf("size %v exceeds maximum %d", value, limit),
		Value:  value,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Index:  -1,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Index:  -1,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Index:  -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Index:  -1,
		Detail: detail,
		Cause:  cause,
	}
}

// At returns a copy of e with path prepended. Positional fields are kept.
func At(e *Error, path ...string) *Error {
	c := *e
	c.Path = append(append([]string{}, path...), e.Path...)
	return &c
}
