package evaluator

import (
	"fmt"

	"github.com/funvibe/loxy/internal/ast"
	"github.com/google/uuid"
)

// Function is a closure: a function declaration plus the Environment that
// was current when the declaration ran.
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment // captured scope, never replaced
	ID         uuid.UUID
	Line       int // Source location for stack traces
	Column     int
}

func NewFunction(node *ast.FunctionStatement, env *Environment) *Function {
	return &Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        env,
		ID:         uuid.New(),
		Line:       node.Token.Line,
		Column:     node.Token.Column,
	}
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	return fmt.Sprintf("<fn %s#%s>", f.Name, f.ID.String()[:8])
}

func (f *Function) Arity() int { return len(f.Parameters) }

// Invoke runs the body in a fresh scope whose parent is the captured
// Environment, not the caller's. A body that ends without return yields nil.
func (f *Function) Invoke(e *Evaluator, args []Object) Object {
	if len(args) != f.Arity() {
		return newError(ErrArityMismatch, "%s expected %d arguments but got %d", f.Name, f.Arity(), len(args))
	}

	env := NewEnclosedEnvironment(f.Env)
	for i, param := range f.Parameters {
		env.Declare(param.Value, args[i])
	}

	result := e.evalStatements(f.Body.Statements, env)
	switch result := result.(type) {
	case *Error:
		return result
	case *ReturnValue:
		return result.Value
	}
	return NIL
}

// BuiltinFunction is the Go implementation behind a native function.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

// Builtin is a function implemented in Go. Arity -1 accepts any count.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<native fn %s>", b.Name) }
