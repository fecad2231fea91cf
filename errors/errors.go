package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // Go value to bytes
	PhaseDecode   Phase = "decode"   // bytes to Go value
	PhaseBuffer   Phase = "buffer"   // buffer and cursor operations
	PhaseBoundary Phase = "boundary" // guest memory and host calls
	PhaseSchema   Phase = "schema"   // type descriptors and registries
	PhaseParse    Phase = "parse"    // type expression parsing
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF       Kind = "unexpected_eof"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindIO                  Kind = "io"
	KindInvalidData         Kind = "invalid_data"
	KindOverflow            Kind = "overflow"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindAllocation          Kind = "allocation"
	KindUnsupported         Kind = "unsupported"
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindReleased            Kind = "released"
	KindHandler             Kind = "handler"
)

// Sentinels for errors.Is. They carry no Phase, so they match any phase.
var (
	ErrUnexpectedEOF       = &Error{Kind: KindUnexpectedEOF}
	ErrInvalidDiscriminant = &Error{Kind: KindInvalidDiscriminant}
	ErrInvalidUTF8         = &Error{Kind: KindInvalidUTF8}
	ErrIO                  = &Error{Kind: KindIO}
	ErrInvalidData         = &Error{Kind: KindInvalidData}
	ErrOverflow            = &Error{Kind: KindOverflow}
	ErrOutOfBounds         = &Error{Kind: KindOutOfBounds}
	ErrReleased            = &Error{Kind: KindReleased}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is reports whether target matches this error. A target without a Phase
// matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// WithPath returns a copy of e with segment prepended to its path.
// Codecs use it to report where inside a nested value decoding failed.
func (e *Error) WithPath(segment string) *Error {
	c := *e
	c.Path = append([]string{segment}, e.Path...)
	return &c
}

// AtType sets the wire type name of err if it is an *Error without one,
// otherwise it returns err unchanged.
func AtType(err error, typ string) error {
	var e *Error
	if errors.As(err, &e) && e.Type == "" {
		c := *e
		c.Type = typ
		return &c
	}
	return err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// AtPath prepends segment to the path of err if it is an *Error,
// otherwise it returns err unchanged.
func AtPath(err error, segment string) error {
	var e *Error
	if errors.As(err, &e) {
		return e.WithPath(segment)
	}
	return err
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
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the wire type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// UnexpectedEOF creates an error for input that ended before a value was complete
func UnexpectedEOF(phase Phase, typ string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnexpectedEOF,
		Type:   typ,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", want, got),
	}
}

// InvalidDiscriminant creates an invalid discriminant error for options and variants
func InvalidDiscriminant(phase Phase, typ string, disc uint64, maxValid uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDiscriminant,
		Type:   typ,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid),
		Value:  disc,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, typ string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Type:   typ,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// IO wraps a low-level failure signaled by a buffer or cursor primitive
func IO(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		Cause: cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, typ string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Type:   typ,
		Detail: detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Type:   target,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// OutOfBounds creates an out of bounds error for memory accesses
func OutOfBounds(phase Phase, offset, length, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, offset+length, size),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Released creates an error for use of a buffer after its memory was released
func Released(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Detail: "buffer used after release",
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, pos int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Type:   what,
		Detail: fmt.Sprintf("at offset %d: %s", pos, detail),
		Value:  pos,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
