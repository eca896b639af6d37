package lox

import "github.com/dolthub/swiss"

// Environment is a name->Object mapping with an optional enclosing
// environment, forming the chain that variable lookups and assignments
// walk outward along (spec §3). Closures and active call frames share
// Environments freely; the ownership graph is cyclic by design (a
// method's closure can reach back to the class that defines it), so
// Environment is always handled through a *Environment pointer and never
// copied, letting Go's garbage collector break the cycles instead of any
// manual bookkeeping.
type Environment struct {
	enclosing *Environment
	values    *swiss.Map[string, Object]
}

// NewEnvironment creates a fresh, empty Environment enclosed by parent
// (nil for the global scope).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		enclosing: parent,
		values:    swiss.NewMap[string, Object](8),
	}
}

// Define binds (or rebinds) name in this environment only. Redefinition in
// the same scope is legal at the environment level; the Resolver is what
// rejects illegal re-declaration within a single lexical scope (spec §4.3).
func (e *Environment) Define(name string, value Object) {
	e.values.Put(name, value)
}

// Get reads name starting at this environment and walking outward.
func (e *Environment) Get(tok Token) (Object, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values.Get(tok.Lexeme); ok {
			return v, nil
		}
	}
	return nil, newRuntimeError(tok, "Undefined variable '"+tok.Lexeme+"'.")
}

// GetAt reads name at exactly `distance` environments outward, used for
// resolver-annotated reads where the scope depth is already known.
func (e *Environment) GetAt(distance int, name string) Object {
	env := e.ancestor(distance)
	v, _ := env.values.Get(name)
	return v
}

// Assign writes name in the nearest environment (outward from this one)
// that already defines it.
func (e *Environment) Assign(tok Token, value Object) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values.Get(tok.Lexeme); ok {
			env.values.Put(tok.Lexeme, value)
			return nil
		}
	}
	return newRuntimeError(tok, "Undefined variable '"+tok.Lexeme+"'.")
}

// AssignAt writes name at exactly `distance` environments outward.
func (e *Environment) AssignAt(distance int, name string, value Object) {
	e.ancestor(distance).values.Put(name, value)
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
