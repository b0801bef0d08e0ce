package evaluator

import (
	"sort"
	"sync"
)

// Binding is a mutable cell holding one variable's current value. Closures
// never copy bindings: they keep the Environment, and assignment replaces
// the value inside the cell, so every holder sees the update.
type Binding struct {
	Value Object
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*Binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

type Environment struct {
	mu    sync.RWMutex
	store map[string]*Binding
	outer *Environment
}

// Declare creates name in this scope. Redeclaring a name in the same scope
// overwrites its value.
func (e *Environment) Declare(name string, val Object) Object {
	e.mu.Lock()
	if b, ok := e.store[name]; ok {
		b.Value = val
	} else {
		e.store[name] = &Binding{Value: val}
	}
	e.mu.Unlock()
	return val
}

// Get looks name up in this scope, then in each enclosing one.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		env.mu.RLock()
		b, ok := env.store[name]
		var val Object
		if ok {
			val = b.Value
		}
		env.mu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// Set replaces the value of the nearest binding of name. It never declares:
// when no scope in the chain owns name, nothing changes and Set returns false.
func (e *Environment) Set(name string, val Object) bool {
	for env := e; env != nil; env = env.outer {
		env.mu.Lock()
		b, ok := env.store[name]
		if ok {
			b.Value = val
		}
		env.mu.Unlock()
		if ok {
			return true
		}
	}
	return false
}

// Has reports whether name is bound in this scope or any enclosing one.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

func (e *Environment) Parent() *Environment {
	return e.outer
}

// Names returns the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}
