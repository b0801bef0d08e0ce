package evaluator

import (
	"github.com/funvibe/loxy/internal/ast"
)

// evalCallExpression checks the callee before evaluating any argument;
// arguments then run left to right in the caller's scope.
func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := e.Eval(node.Function, env)
	if isError(function) {
		return function
	}
	if !isCallable(function) {
		return newError(ErrNotCallable, "can only call functions, got %s", TypeName(function))
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	e.PushCall(calleeName(function), e.CurrentFile, node.Token.Line, node.Token.Column)
	defer e.PopCall()
	return e.applyFunction(function, args)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

// ApplyFunction calls a Function or Builtin from Go, outside any source call
// site. Errors come back as *Error objects.
func (e *Evaluator) ApplyFunction(fn Object, args []Object) Object {
	if !isCallable(fn) {
		return newError(ErrNotCallable, "can only call functions, got %s", TypeName(fn))
	}
	e.PushCall(calleeName(fn), e.CurrentFile, 0, 0)
	defer e.PopCall()
	result := e.applyFunction(fn, args)
	if err, ok := result.(*Error); ok && err.StackTrace == nil {
		err.StackTrace = e.stackTrace()
	}
	return result
}

func (e *Evaluator) applyFunction(fn Object, args []Object) Object {
	switch fn := fn.(type) {
	case *Function:
		return fn.Invoke(e, args)
	case *Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return newError(ErrArityMismatch, "%s expected %d arguments but got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(e, args...)
	}
	return newError(ErrNotCallable, "can only call functions, got %s", TypeName(fn))
}

func isCallable(obj Object) bool {
	switch obj.(type) {
	case *Function, *Builtin:
		return true
	}
	return false
}

func calleeName(fn Object) string {
	switch fn := fn.(type) {
	case *Function:
		return fn.Name
	case *Builtin:
		return fn.Name
	}
	return "?"
}
