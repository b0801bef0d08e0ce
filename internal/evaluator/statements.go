package evaluator

import (
	"github.com/funvibe/loxy/internal/ast"
)

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NIL
	for _, statement := range program.Statements {
		result = e.Eval(statement, env)
		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}
	return result
}

// evalStatements runs statements in order. A ReturnValue or Error stops the
// sequence and is handed back unchanged so it can keep propagating.
func (e *Evaluator) evalStatements(statements []ast.Statement, env *Environment) Object {
	var result Object = NIL
	for _, statement := range statements {
		result = e.Eval(statement, env)
		if result != nil {
			rt := result.Type()
			if rt == RETURN_VALUE_OBJ || rt == ERROR_OBJ {
				return result
			}
		}
	}
	return result
}

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *Environment) Object {
	var val Object = NIL
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
	}
	env.Declare(node.Name.Value, val)
	return NIL
}

func (e *Evaluator) evalPrintStatement(node *ast.PrintStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if err := e.Out.WriteLine(val.Inspect()); err != nil {
		return newError(ErrOutput, "writing output: %v", err)
	}
	return NIL
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	var val Object = NIL
	if node.ReturnValue != nil {
		val = e.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
	}
	return &ReturnValue{Value: val}
}
