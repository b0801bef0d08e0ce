package evaluator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/funvibe/loxy/internal/ast"
	"github.com/funvibe/loxy/internal/config"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name   string // Function name
	File   string // Source file
	Line   int    // Line number
	Column int    // Column number
}

// Sink receives printed output, one line per print statement.
type Sink interface {
	WriteLine(line string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(line string) error

func (f SinkFunc) WriteLine(line string) error { return f(line) }

// WriterSink writes each line followed by a newline to w.
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(line string) error {
		_, err := fmt.Fprintln(w, line)
		return err
	})
}

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Out Sink
	// CallStack for stack traces on errors
	CallStack []CallFrame
	// CurrentFile being evaluated
	CurrentFile string
	// MaxDepth bounds the nesting of Eval calls; 0 means config.DefaultMaxDepth.
	MaxDepth int

	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Out:      WriterSink(os.Stdout),
		MaxDepth: config.DefaultMaxDepth,
	}
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return config.DefaultMaxDepth
}

// Run executes every top-level statement of program in env. It returns the
// first runtime error as an *Error; output printed before it stays printed.
func (e *Evaluator) Run(program *ast.Program, env *Environment) error {
	if e.CurrentFile == "" {
		e.CurrentFile = program.File
	}
	if err, ok := e.Eval(program, env).(*Error); ok {
		return err
	}
	return nil
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.maxDepth() {
		return e.locate(newError(ErrRecursionLimit, "maximum recursion depth exceeded"), node)
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return e.locate(newError(ErrCancelled, "execution cancelled: %v", e.Context.Err()), node)
		default:
		}
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok {
		e.locate(err, node)
	}
	return obj
}

// locate stamps an error with the innermost node position and the call
// stack at that point. Errors that already carry a position keep it.
func (e *Evaluator) locate(err *Error, node ast.Node) *Error {
	if err.Line != 0 || node == nil {
		return err
	}
	if provider, ok := node.(ast.TokenProvider); ok {
		tok := provider.GetToken()
		err.Line = tok.Line
		err.Column = tok.Column
	}
	if err.StackTrace == nil {
		err.StackTrace = e.stackTrace()
	}
	return err
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.LetStatement:
		return e.evalLetStatement(node, env)
	case *ast.FunctionStatement:
		// Declared in the scope it captures, so the body can call itself.
		fn := NewFunction(node, env)
		env.Declare(fn.Name, fn)
		return NIL
	case *ast.PrintStatement:
		return e.evalPrintStatement(node, env)
	case *ast.BlockStatement:
		return e.evalStatements(node.Statements, NewEnclosedEnvironment(env))
	case *ast.IfStatement:
		return e.evalIfStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ForStatement:
		return e.evalForStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)

	// Expressions
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NilLiteral:
		return NIL
	case *ast.GroupedExpression:
		return e.Eval(node.Expression, env)
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)
	case *ast.LogicalExpression:
		return e.evalLogicalExpression(node, env)
	case *ast.AssignExpression:
		return e.evalAssignExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	}

	return newError(ErrTypeMismatch, "cannot evaluate %T", node)
}
