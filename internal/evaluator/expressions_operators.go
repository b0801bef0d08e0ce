package evaluator

import (
	"github.com/funvibe/loxy/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		num, ok := right.(*Number)
		if !ok {
			return newError(ErrTypeMismatch, "operand of '-' must be a number, got %s", TypeName(right))
		}
		return &Number{Value: -num.Value}
	}
	return newError(ErrTypeMismatch, "unknown operator: %s%s", operator, TypeName(right))
}

func (e *Evaluator) evalInfixExpression(operator string, left, right Object) Object {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	}

	l, lok := left.(*Number)
	r, rok := right.(*Number)
	if lok && rok {
		return evalNumberInfix(operator, l.Value, r.Value)
	}

	if operator == "+" {
		ls, lok := left.(*String)
		rs, rok := right.(*String)
		if lok && rok {
			return &String{Value: ls.Value + rs.Value}
		}
		return newError(ErrTypeMismatch, "operands of '+' must be two numbers or two strings, got %s and %s",
			TypeName(left), TypeName(right))
	}

	return newError(ErrTypeMismatch, "operands of '%s' must be numbers, got %s and %s",
		operator, TypeName(left), TypeName(right))
}

// evalNumberInfix follows IEEE-754: division by zero yields ±Inf or NaN.
func evalNumberInfix(operator string, l, r float64) Object {
	switch operator {
	case "+":
		return &Number{Value: l + r}
	case "-":
		return &Number{Value: l - r}
	case "*":
		return &Number{Value: l * r}
	case "/":
		return &Number{Value: l / r}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	}
	return newError(ErrTypeMismatch, "unknown operator: number %s number", operator)
}

// evalLogicalExpression short-circuits and yields one of its operands.
func (e *Evaluator) evalLogicalExpression(node *ast.LogicalExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	if node.Operator == "or" {
		if isTruthy(left) {
			return left
		}
	} else if !isTruthy(left) {
		return left
	}
	return e.Eval(node.Right, env)
}

// objectsEqual never fails. Different kinds are unequal, numbers compare by
// IEEE value (NaN != NaN), functions by identity.
func objectsEqual(a, b Object) bool {
	switch a := a.(type) {
	case *Number:
		if b, ok := b.(*Number); ok {
			return a.Value == b.Value
		}
	case *Boolean:
		if b, ok := b.(*Boolean); ok {
			return a.Value == b.Value
		}
	case *String:
		if b, ok := b.(*String); ok {
			return a.Value == b.Value
		}
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Function:
		if b, ok := b.(*Function); ok {
			return a == b
		}
	case *Builtin:
		if b, ok := b.(*Builtin); ok {
			return a == b
		}
	}
	return false
}
