package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which compiler stage produced the error
type Phase string

const (
	PhaseLex      Phase = "lex"      // source text to tokens
	PhaseParse    Phase = "parse"    // tokens to AST
	PhaseValidate Phase = "validate" // structural checks
	PhaseCodegen  Phase = "codegen"  // AST to WAT
	PhaseAssemble Phase = "assemble" // WAT to binary module
)

// Kind categorizes the error
type Kind string

const (
	KindIllegalChar        Kind = "illegal_char"
	KindUnterminatedString Kind = "unterminated_string"
	KindUnexpectedToken    Kind = "unexpected_token"
	KindUnexpectedEOF      Kind = "unexpected_eof"
	KindDepthExceeded      Kind = "depth_exceeded"
	KindTokenLimit         Kind = "token_limit"
	KindEmptyStruct        Kind = "empty_struct"
	KindDuplicateField     Kind = "duplicate_field"
	KindDuplicateItem      Kind = "duplicate_item"
	KindNoStructs          Kind = "no_structs"
	KindInvalidData        Kind = "invalid_data"
	KindUnsupported        Kind = "unsupported"
	KindTimeout            Kind = "timeout"
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Line   int
	Column int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Line, e.Column)
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
		},
	}
}

// At sets the source position
func (b *Builder) At(line, column int) *Builder {
	b.err.Line = line
	b.err.Column = column
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

// IllegalChar creates a lexical error for an unrecognized character
func IllegalChar(line, column int, ch rune) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindIllegalChar,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("unexpected character %q", ch),
	}
}

// UnterminatedString creates a lexical error for a string literal with no closing quote
func UnterminatedString(line, column int) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindUnterminatedString,
		Line:   line,
		Column: column,
		Detail: "unterminated string literal",
	}
}

// UnexpectedToken creates a syntax error at the offending token
func UnexpectedToken(line, column int, got, want string) *Error {
	detail := fmt.Sprintf("unexpected %s", got)
	if want != "" {
		detail = fmt.Sprintf("expected %s, got %s", want, got)
	}
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnexpectedToken,
		Line:   line,
		Column: column,
		Detail: detail,
	}
}

// DepthExceeded creates the recursion-guard error
func DepthExceeded(line, column, limit int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindDepthExceeded,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("nesting exceeds maximum depth %d", limit),
	}
}

// EmptyStruct creates a validation error for a struct with no fields
func EmptyStruct(line, column int, name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindEmptyStruct,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("struct %q must have at least one field", name),
	}
}

// DuplicateField creates a validation error for a repeated field name
func DuplicateField(line, column int, field, owner string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindDuplicateField,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("duplicate field name %q in struct %q", field, owner),
	}
}

// NoStructs creates the file-level validation error for a source with no struct declarations
func NoStructs(file string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindNoStructs,
		Detail: fmt.Sprintf("%s declares no structs", file),
	}
}

// AssembleFailed wraps an assembler failure
func AssembleFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseAssemble,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("assemble module: %v", cause),
		Cause:  cause,
	}
}

// Timeout creates the time-budget error for the assemble boundary
func Timeout(cause error) *Error {
	return &Error{
		Phase:  PhaseAssemble,
		Kind:   KindTimeout,
		Detail: "compile budget exceeded",
		Cause:  cause,
	}
}

// Unsupported creates an unsupported construct error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
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
