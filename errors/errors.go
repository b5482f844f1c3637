package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // term constructors
	PhaseLift      Phase = "lift"      // Go value to term
	PhaseEncode    Phase = "encode"    // term to bytes
	PhaseDecode    Phase = "decode"    // bytes to term
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseParse     Phase = "parse"     // term literal parsing
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidVersion   Kind = "invalid_version"
	KindUnknownTag       Kind = "unknown_tag"
	KindTrailingData     Kind = "trailing_data"
	KindTruncatedBuffer  Kind = "truncated_buffer"
	KindSizeMismatch     Kind = "size_mismatch"
	KindIntegerTooLarge  Kind = "integer_too_large"
	KindInvalidArity     Kind = "invalid_arity"
	KindUnsupportedType  Kind = "unsupported_type"
	KindUnencodableValue Kind = "unencodable_value"
	KindDuplicateMapKey  Kind = "duplicate_map_key"
	KindInvalidData      Kind = "invalid_data"
)

// NoOffset marks an error that is not tied to a byte position.
const NoOffset = -1

// Sentinels for errors.Is. They match any phase.
var (
	ErrInvalidVersion   = &Error{Kind: KindInvalidVersion, Offset: NoOffset}
	ErrUnknownTag       = &Error{Kind: KindUnknownTag, Offset: NoOffset}
	ErrTrailingData     = &Error{Kind: KindTrailingData, Offset: NoOffset}
	ErrTruncatedBuffer  = &Error{Kind: KindTruncatedBuffer, Offset: NoOffset}
	ErrSizeMismatch     = &Error{Kind: KindSizeMismatch, Offset: NoOffset}
	ErrIntegerTooLarge  = &Error{Kind: KindIntegerTooLarge, Offset: NoOffset}
	ErrInvalidArity     = &Error{Kind: KindInvalidArity, Offset: NoOffset}
	ErrUnsupportedType  = &Error{Kind: KindUnsupportedType, Offset: NoOffset}
	ErrUnencodableValue = &Error{Kind: KindUnencodableValue, Offset: NoOffset}
	ErrDuplicateMapKey  = &Error{Kind: KindDuplicateMapKey, Offset: NoOffset}
	ErrInvalidData      = &Error{Kind: KindInvalidData, Offset: NoOffset}
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
	Offset int
	Tag    int // wire tag, 0 when unknown
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

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Tag > 0 {
		b.WriteString(" (tag ")
		b.WriteString(strconv.Itoa(e.Tag))
		b.WriteByte(')')
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
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

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Tag sets the wire tag being processed
func (b *Builder) Tag(tag byte) *Builder {
	b.err.Tag = int(tag)
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

// InvalidVersion creates a bad version byte error
func InvalidVersion(got byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidVersion,
		Offset: 0,
		Value:  got,
		Detail: fmt.Sprintf("expected version byte 131, got %d", got),
	}
}

// UnknownTag creates an unsupported tag error
func UnknownTag(offset int, tag byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownTag,
		Offset: offset,
		Tag:    int(tag),
		Detail: "unsupported tag",
	}
}

// Truncated creates a truncated buffer error for a read of need bytes
func Truncated(offset int, tag byte, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedBuffer,
		Offset: offset,
		Tag:    int(tag),
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
	}
}

// TrailingData creates an unconsumed input error
func TrailingData(offset, length int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingData,
		Offset: offset,
		Detail: fmt.Sprintf("%d unused bytes after term", length-offset),
	}
}

// SizeMismatch creates an estimator/encoder divergence error
func SizeMismatch(written, expected int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSizeMismatch,
		Offset: written,
		Detail: fmt.Sprintf("wrote %d bytes, estimated %d", written, expected),
	}
}

// IntegerTooLarge creates a bignum width error
func IntegerTooLarge(offset int, tag byte, n uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindIntegerTooLarge,
		Offset: offset,
		Tag:    int(tag),
		Value:  n,
		Detail: fmt.Sprintf("magnitude of %d bytes exceeds 8", n),
	}
}

// InvalidArity creates an arity error
func InvalidArity(phase Phase, offset int, arity, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArity,
		Offset: offset,
		Value:  arity,
		Detail: fmt.Sprintf("arity %d exceeds %d", arity, max),
	}
}

// UnsupportedType creates an unsupported source type error
func UnsupportedType(phase Phase, v any, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Offset: NoOffset,
		Value:  v,
		GoType: fmt.Sprintf("%T", v),
		Detail: what,
	}
}

// Unencodable creates an error for a value that has no wire form
func Unencodable(phase Phase, path []string, v any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnencodableValue,
		Offset: NoOffset,
		Path:   path,
		Value:  v,
		GoType: fmt.Sprintf("%T", v),
		Detail: detail,
	}
}

// DuplicateMapKey creates a map key collision error
func DuplicateMapKey(phase Phase, offset int, key any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateMapKey,
		Offset: offset,
		Value:  key,
		Detail: fmt.Sprintf("key %v appears more than once", key),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Offset: NoOffset,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a literal parsing error
func ParseFailed(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: detail,
	}
}
