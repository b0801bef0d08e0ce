package evaluator

import (
	"github.com/funvibe/loxy/internal/ast"
)

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := e.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.Eval(node.Consequence, env)
	} else if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return NIL
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		condition := e.Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return NIL
		}

		result := e.Eval(node.Body, env)
		if isLoopExit(result) {
			return result
		}
	}
}

// evalForStatement runs the initializer in a scope of its own that encloses
// the whole loop. There is one loop variable binding for all iterations.
func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)

	if node.Initializer != nil {
		if init := e.Eval(node.Initializer, loopEnv); isError(init) {
			return init
		}
	}

	for {
		if node.Condition != nil {
			condition := e.Eval(node.Condition, loopEnv)
			if isError(condition) {
				return condition
			}
			if !isTruthy(condition) {
				return NIL
			}
		}

		result := e.Eval(node.Body, loopEnv)
		if isLoopExit(result) {
			return result
		}

		if node.Increment != nil {
			if incr := e.Eval(node.Increment, loopEnv); isError(incr) {
				return incr
			}
		}
	}
}

func isLoopExit(result Object) bool {
	if result == nil {
		return false
	}
	rt := result.Type()
	return rt == RETURN_VALUE_OBJ || rt == ERROR_OBJ
}
