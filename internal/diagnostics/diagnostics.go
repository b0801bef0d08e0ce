// Package diagnostics defines the coded, positioned errors reported by the
// lexer, parser and execution stages.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/loxy/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string

	// Parser
	ErrP001 ErrorCode = "P001" // expected identifier
	ErrP002 ErrorCode = "P002" // invalid assignment target
	ErrP003 ErrorCode = "P003" // too many parameters/arguments
	ErrP004 ErrorCode = "P004" // no prefix parse function
	ErrP005 ErrorCode = "P005" // unexpected token
	ErrP006 ErrorCode = "P006" // return outside function
	ErrP007 ErrorCode = "P007" // duplicate parameter
	ErrP008 ErrorCode = "P008" // expression nested too deeply

	// Runtime
	ErrR001 ErrorCode = "R001"
)

var templates = map[ErrorCode]string{
	ErrL001: "illegal character %q",
	ErrL002: "unterminated string",
	ErrP001: "expected %s name, got %s",
	ErrP002: "invalid assignment target",
	ErrP003: "can't have more than %d %s",
	ErrP004: "expected expression, got %s",
	ErrP005: "expected %s, got %s instead",
	ErrP006: "can't return from top-level code",
	ErrP007: "duplicate parameter '%s'",
	ErrP008: "expression nested too deeply (limit %d)",
	ErrR001: "%s",
}

// DiagnosticError is a positioned error produced by one of the pipeline stages.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	Cause   error // underlying runtime error, if any
}

// NewError builds a DiagnosticError whose message is the code's template
// formatted with args.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	tmpl, ok := templates[code]
	if !ok {
		tmpl = strings.Repeat("%v ", len(args))
	}
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: strings.TrimSpace(fmt.Sprintf(tmpl, args...)),
	}
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Token.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Token.Line, e.Token.Column)
	} else if e.File != "" {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "error [%s]: %s", e.Code, e.Message)
	return b.String()
}

func (e *DiagnosticError) Unwrap() error { return e.Cause }

// IsRuntime reports whether the error came from program execution rather
// than from reading the source.
func (e *DiagnosticError) IsRuntime() bool {
	return strings.HasPrefix(string(e.Code), "R")
}

// Format renders every error on its own line.
func Format(errs []*DiagnosticError) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}
