package evaluator

import (
	"errors"
	"fmt"
)

// Runtime error kinds. Every *Error unwraps to exactly one of these, so
// callers can branch with errors.Is.
var (
	ErrUnboundVariable = errors.New("unbound variable")
	ErrNotCallable     = errors.New("not callable")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrArityMismatch   = errors.New("arity mismatch")
	ErrRecursionLimit  = errors.New("recursion limit exceeded")
	ErrCancelled       = errors.New("execution cancelled")
	ErrOutput          = errors.New("output failed")
	ErrHost            = errors.New("host function failed")
)

func newError(kind error, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// Errorf builds a runtime error of the given kind for code outside this
// package, such as Go functions exposed as builtins.
func Errorf(kind error, format string, a ...interface{}) *Error {
	return newError(kind, format, a...)
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

var kindNames = []struct {
	kind error
	name string
}{
	{ErrUnboundVariable, "UnboundVariable"},
	{ErrNotCallable, "NotCallable"},
	{ErrTypeMismatch, "TypeMismatch"},
	{ErrArityMismatch, "ArityMismatch"},
	{ErrRecursionLimit, "RecursionLimit"},
	{ErrCancelled, "Cancelled"},
	{ErrOutput, "Output"},
	{ErrHost, "Host"},
}

// KindName returns a short name for the runtime kind err wraps, or "" if it
// wraps none of them.
func KindName(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.kind) {
			return k.name
		}
	}
	return ""
}
