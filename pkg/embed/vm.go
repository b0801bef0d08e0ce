// Package loxy embeds the interpreter in Go programs. A VM keeps its globals
// between Eval calls, so Go code can declare values, run scripts and call
// the functions those scripts define.
package loxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/funvibe/loxy/internal/backend"
	"github.com/funvibe/loxy/internal/evaluator"
	"github.com/funvibe/loxy/internal/sink"
)

// Runtime error kinds, matchable with errors.Is on errors from Eval and Call.
var (
	ErrUnboundVariable = evaluator.ErrUnboundVariable
	ErrNotCallable     = evaluator.ErrNotCallable
	ErrTypeMismatch    = evaluator.ErrTypeMismatch
	ErrArityMismatch   = evaluator.ErrArityMismatch
	ErrRecursionLimit  = evaluator.ErrRecursionLimit
	ErrCancelled       = evaluator.ErrCancelled
	ErrHost            = evaluator.ErrHost
)

// ErrNotFound is returned by Get and Call for undeclared globals.
var ErrNotFound = errors.New("global not found")

// VM is an interpreter instance with its own global environment. It is not
// safe for concurrent use.
type VM struct {
	backend    *backend.TreeWalkBackend
	out        *sink.Capture
	marshaller *Marshaller
}

type Option func(*config)

type config struct {
	maxDepth int
	ctx      context.Context
	output   io.Writer
}

// WithMaxDepth sets the recursion limit.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithContext stops evaluation once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithOutput also writes printed lines to w.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// New creates a VM with the standard builtins declared.
func New(opts ...Option) *VM {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	out := sink.NewCapture()
	eval := evaluator.New()
	eval.Out = out
	if cfg.output != nil {
		eval.Out = sink.Multi(out, sink.NewWriter(cfg.output))
	}
	if cfg.maxDepth > 0 {
		eval.MaxDepth = cfg.maxDepth
	}
	eval.Context = cfg.ctx

	vm := &VM{
		backend: backend.NewTreeWalk(eval),
		out:     out,
	}
	vm.marshaller = NewMarshaller(vm)
	return vm
}

// Eval runs code and returns the lines it printed. On failure the lines
// printed before the error are returned with it.
func (v *VM) Eval(code string) ([]string, error) {
	return v.run(code, "<eval>")
}

// LoadFile runs the source file at path.
func (v *VM) LoadFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return v.run(string(content), path)
}

func (v *VM) run(code, file string) ([]string, error) {
	v.out.Reset()
	ctx := backend.RunSource(v.backend, code, file)
	lines := v.out.Lines()
	if ctx.Failed() {
		errs := make([]error, len(ctx.Errors))
		for i, d := range ctx.Errors {
			errs[i] = d
		}
		return lines, errors.Join(errs...)
	}
	return lines, nil
}

// Set declares a global. Go funcs become callable native functions named
// after the global.
func (v *VM) Set(name string, val interface{}) error {
	var (
		obj evaluator.Object
		err error
	)
	if rv := reflect.ValueOf(val); rv.Kind() == reflect.Func {
		obj, err = v.marshaller.wrapFunc(name, rv)
	} else {
		obj, err = v.marshaller.ToValue(val)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	v.backend.Env.Declare(name, obj)
	return nil
}

// Get returns a global converted to Go. Numbers come back as float64 and
// functions as *Func.
func (v *VM) Get(name string) (interface{}, error) {
	obj, ok := v.backend.Env.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v.marshaller.FromValue(obj, nil)
}

// Call invokes the global function name with Go arguments.
func (v *VM) Call(name string, args ...interface{}) (interface{}, error) {
	fn, ok := v.backend.Env.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v.apply(fn, args)
}

func (v *VM) apply(fn evaluator.Object, args []interface{}) (interface{}, error) {
	objs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := v.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		objs[i] = obj
	}

	result := v.backend.Evaluator.ApplyFunction(fn, objs)
	if err, ok := result.(*evaluator.Error); ok {
		return nil, err
	}
	return v.marshaller.FromValue(result, nil)
}

// Globals lists the names declared in the global environment.
func (v *VM) Globals() []string {
	return v.backend.Env.Names()
}

// Func is an interpreter function handed to Go.
type Func struct {
	vm *VM
	fn evaluator.Object
}

// Call invokes the function with Go arguments.
func (f *Func) Call(args ...interface{}) (interface{}, error) {
	return f.vm.apply(f.fn, args)
}

func (f *Func) String() string {
	return f.fn.Inspect()
}
