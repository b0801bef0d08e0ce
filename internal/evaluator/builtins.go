package evaluator

import (
	"time"

	"github.com/funvibe/loxy/internal/config"
)

// Builtins are the native functions every global environment starts with.
var Builtins = map[string]*Builtin{
	config.ClockFuncName: {
		Name:  config.ClockFuncName,
		Arity: 0,
		Fn: func(e *Evaluator, args ...Object) Object {
			return &Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
		},
	},
	config.StrFuncName: {
		Name:  config.StrFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			return &String{Value: args[0].Inspect()}
		},
	},
	config.TypeFuncName: {
		Name:  config.TypeFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			return &String{Value: TypeName(args[0])}
		},
	},
}

// RegisterBuiltins declares every builtin in env.
func RegisterBuiltins(env *Environment) {
	for name, builtin := range Builtins {
		env.Declare(name, builtin)
	}
}

// NewGlobalEnvironment returns a top-level scope with the builtins declared.
func NewGlobalEnvironment() *Environment {
	env := NewEnvironment()
	RegisterBuiltins(env)
	return env
}
