package evaluator

import (
	"fmt"
	"strings"
)

// Error is a runtime failure. It travels through Eval like any other object
// and short-circuits evaluation until Run surfaces it as a Go error.
type Error struct {
	Kind       error // one of the Err* sentinels
	Message    string
	Line       int
	Column     int
	StackTrace []StackFrame
}

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	} else {
		result = "ERROR: " + e.Message
	}

	// Innermost call first.
	if len(e.StackTrace) > 0 {
		result += "\nStack trace:"
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			result += "\n  " + e.StackTrace[i].String()
		}
	}

	return result
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func (f StackFrame) String() string {
	file := f.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("at %s:%d (called %s)", file, f.Line, f.Name)
}

// FormatStackTrace renders frames innermost first, one per line.
func FormatStackTrace(frames []StackFrame) string {
	lines := make([]string, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		lines = append(lines, "  "+frames[i].String())
	}
	return strings.Join(lines, "\n")
}

// ReturnValue wraps a value that is being returned prematurely
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
