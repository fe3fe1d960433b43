// Package errors defines the structured error model shared by the scanner
// and the interpolation engine.
package errors

import (
	"fmt"
)

// Error kinds for the different categories of failures
const (
	// Resolution errors
	RecursiveLookup = "RECURSIVE_LOOKUP"
	MissingVar      = "MISSING_VAR"

	// Scanner errors
	Syntax           = "SYNTAX_ERROR"
	UnclosedBrace    = "UNCLOSED_BRACE"
	UnclosedQuote    = "UNCLOSED_QUOTE"
	UnclosedBacktick = "UNCLOSED_BACKTICK"

	// Command substitution errors
	Command = "COMMAND_ERROR"
	IO      = "IO_ERROR"
)

// Error is a structured interpolation error with a kind and context.
//
// Offset is the byte offset of the offending construct's opening delimiter
// for scanner errors, and -1 for errors with no source position.
type Error struct {
	Kind    string
	Message string
	Offset  int
	Name    string // variable name, set for MISSING_VAR
	Stderr  string // captured standard error, set for COMMAND_ERROR
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case RecursiveLookup:
		return fmt.Sprintf("maximum interpolation depth exceeded: %s", e.Message)
	case MissingVar:
		return fmt.Sprintf("variable not found: %s", e.Name)
	case Syntax:
		return fmt.Sprintf("syntax error at position %d: %s", e.Offset, e.Message)
	case UnclosedBrace:
		return fmt.Sprintf("unclosed variable brace starting at position %d", e.Offset)
	case UnclosedQuote:
		return fmt.Sprintf("unterminated quote starting at position %d", e.Offset)
	case UnclosedBacktick:
		return fmt.Sprintf("unclosed backtick command starting at position %d", e.Offset)
	case Command:
		return fmt.Sprintf("command execution failed: %s", e.Stderr)
	case IO:
		if e.Cause != nil {
			return fmt.Sprintf("io error: %v", e.Cause)
		}
		return fmt.Sprintf("io error: %s", e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap allows error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewRecursiveLookup reports that resolving text exceeded the depth bound.
func NewRecursiveLookup(text string) *Error {
	return &Error{Kind: RecursiveLookup, Message: text, Offset: -1}
}

// NewMissingVar reports a variable with no value and no applicable default.
func NewMissingVar(name string) *Error {
	return &Error{Kind: MissingVar, Name: name, Offset: -1}
}

// NewSyntax reports a malformed construct at a byte offset.
func NewSyntax(message string, offset int) *Error {
	return &Error{Kind: Syntax, Message: message, Offset: offset}
}

// NewUnclosedBrace reports a ${ with no matching }.
func NewUnclosedBrace(offset int) *Error {
	return &Error{Kind: UnclosedBrace, Offset: offset}
}

// NewUnclosedQuote reports a quote with no matching close inside a
// construct that requires one.
func NewUnclosedQuote(offset int) *Error {
	return &Error{Kind: UnclosedQuote, Offset: offset}
}

// NewUnclosedBacktick reports a backtick command with no closing backtick.
func NewUnclosedBacktick(offset int) *Error {
	return &Error{Kind: UnclosedBacktick, Offset: offset}
}

// NewCommand reports a substituted command that exited non-zero.
func NewCommand(stderr string) *Error {
	return &Error{Kind: Command, Stderr: stderr, Offset: -1}
}

// NewIO reports a command that could not be spawned at all.
func NewIO(cause error) *Error {
	return &Error{Kind: IO, Cause: cause, Offset: -1}
}

// IsKind checks whether err is an interpolation error of the given kind.
func IsKind(err error, kind string) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}
