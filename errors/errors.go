package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseHeader  Phase = "header"  // format version and string blob
	PhaseDecode  Phase = "decode"  // command stream to IR
	PhaseResolve Phase = "resolve" // id and builtin name resolution
	PhaseEncode  Phase = "encode"  // IR to command stream
	PhaseLoad    Phase = "load"    // artifact loading
	PhaseConfig  Phase = "config"  // configuration parsing
)

// Kind categorizes the error
type Kind string

const (
	KindVersionMismatch   Kind = "version_mismatch"
	KindUnknownCommand    Kind = "unknown_command"
	KindUnderrun          Kind = "underrun"
	KindTrailingData      Kind = "trailing_data"
	KindUnresolvedID      Kind = "unresolved_id"
	KindUnresolvedBuiltin Kind = "unresolved_builtin"
	KindIDOrder           Kind = "id_order"
	KindMalformedScope    Kind = "malformed_scope"
	KindKindMismatch      Kind = "kind_mismatch"
	KindArity             Kind = "arity"
	KindUnknownSetting    Kind = "unknown_setting"
	KindInvalidData       Kind = "invalid_data"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindOverflow          Kind = "overflow"
)

// Error is the structured error type used throughout the module.
// Offset is the byte position at which the violation was detected, or -1
// when no stream position applies.
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Command string
	Detail  string
	Offset  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Command != "" {
		b.WriteString(" in ")
		b.WriteString(e.Command)
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
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Command sets the command tag name being decoded
func (b *Builder) Command(name string) *Builder {
	b.err.Command = name
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

// VersionMismatch creates a format version error
func VersionMismatch(want, got uint16) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindVersionMismatch,
		Offset: 0,
		Detail: fmt.Sprintf("unsupported format version %d (current version is %d)", got, want),
		Value:  got,
	}
}

// Underrun creates an error for a read past the end of the buffer
func Underrun(phase Phase, offset, want, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnderrun,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", want, have),
	}
}

// TrailingData creates an error for bytes left after a complete decode
func TrailingData(offset, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingData,
		Offset: offset,
		Detail: fmt.Sprintf("%d unread bytes after end of program", remaining),
		Value:  remaining,
	}
}

// UnknownCommand creates an error for an unrecognized command tag
func UnknownCommand(offset int, category string, tag byte) *Error {
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindUnknownCommand,
		Offset:  offset,
		Command: category,
		Detail:  fmt.Sprintf("unsupported %s command %d", category, tag),
		Value:   tag,
	}
}

// UnresolvedID creates an error for a backreference to an unassigned id
func UnresolvedID(offset int, id uint16) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedID,
		Offset: offset,
		Detail: fmt.Sprintf("symbol id %d has not been assigned", id),
		Value:  id,
	}
}

// UnresolvedBuiltin creates an error for a builtin name missing from the root scope
func UnresolvedBuiltin(offset int, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedBuiltin,
		Offset: offset,
		Detail: fmt.Sprintf("builtin symbol %q not found in root scope", name),
		Value:  name,
	}
}

// KindMismatch creates an error for a symbol or node of the wrong kind
func KindMismatch(phase Phase, offset int, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindKindMismatch,
		Offset: offset,
		Detail: fmt.Sprintf("expected %s, found %s", want, got),
	}
}

// Arity creates an argument count error
func Arity(offset int, command string, want, got int) *Error {
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindArity,
		Offset:  offset,
		Command: command,
		Detail:  fmt.Sprintf("expected %d arguments, got %d", want, got),
		Value:   got,
	}
}

// MalformedScope creates a symbol table structure error
func MalformedScope(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedScope,
		Offset: offset,
		Detail: detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Offset: -1,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Offset: -1,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates an artifact loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
