package evaluator

import (
	"github.com/funvibe/loxy/internal/ast"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError(ErrUnboundVariable, "undefined variable '%s'", node.Value)
}

// evalAssignExpression evaluates the value first, then rebinds the nearest
// existing binding. Assigning to an undeclared name changes nothing.
func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if !env.Set(node.Name.Value, val) {
		return newError(ErrUnboundVariable, "undefined variable '%s'", node.Name.Value)
	}
	return val
}
