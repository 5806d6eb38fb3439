package calc

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/exparse/calc/token"
)

// Predefined errors (sentinel values).
var (
	ErrUnexpectedToken      = NewError("unexpected token")
	ErrMismatchedScope      = NewError("mismatched scope")
	ErrIncompleteExpression = NewError("incomplete expression")
	ErrUnknownOperator      = NewError("unknown operator")
	ErrLex                  = NewError("invalid character")
	ErrMaxDepthExceeded     = NewError("maximum nesting depth exceeded")
	ErrUndefinedVariable    = NewError("undefined variable")
	ErrInvalidTree          = NewError("invalid expression tree")
	ErrReadInput            = NewError("failed to read input")
	ErrCompile              = NewError("expression compilation failed")
	ErrRun                  = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.With] or [Error.Wrap] still
// match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err}
	e.base = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t.base)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.base,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.base,
	}
}

// ParseError reports a syntax error at a specific token. No partial tree is
// ever returned alongside a ParseError.
type ParseError struct {
	Kind   *Error         // One of the parse sentinels, e.g. ErrMismatchedScope
	Token  token.Token    // The offending token
	Pos    token.Position // Position of the offending token
	Source string         // The original source input, if known
	Err    error          // Optional underlying cause (e.g. a lexer error)
}

func newParseError(kind *Error, tok token.Token, cause error) *ParseError {
	return &ParseError{Kind: kind, Token: tok, Pos: tok.Pos, Err: cause}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": ")
	buf.WriteString(e.describe())

	if e.Source != "" {
		buf.WriteRune('\n')
		buf.WriteString(e.snippet())
	}

	return buf.String()
}

func (e *ParseError) describe() string {
	msg := "parse error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg + ": " + e.Token.String()
}

// snippet renders the offending source line with a caret under the column.
func (e *ParseError) snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line <= 0 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(lines[e.Pos.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Pos.Line))+5)
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// Unwrap returns the error kind and the underlying cause, if any.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)

	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.describe()),
		slog.String("position", e.Pos.String()),
	}

	if e.Token.Kind != token.EOF {
		attrs = append(attrs, slog.String("token", e.Token.Text))
	}

	return slog.GroupValue(attrs...)
}

// EvalError reports a failure while evaluating a tree.
type EvalError struct {
	Name string // Variable name involved, if any
	Err  error
}

func undefinedVariable(name string) *EvalError {
	return &EvalError{
		Name: name,
		Err:  ErrUndefinedVariable.With(slog.String("name", name)),
	}
}

func invalidTree(issue string) *EvalError {
	return &EvalError{Err: ErrInvalidTree.With(slog.String("issue", issue))}
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}

	return e.Err.Error() + " " + strconv.Quote(e.Name)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EvalError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *EvalError) LogValue() slog.Value {
	var le slog.LogValuer
	if errors.As(e.Err, &le) {
		return le.LogValue()
	}

	return slog.GroupValue(
		slog.String("error", e.Err.Error()),
		slog.String("name", e.Name),
	)
}
