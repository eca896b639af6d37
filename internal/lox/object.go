package lox

import (
	"strconv"

	"github.com/dolthub/swiss"
)

// ObjectType tags the dynamic kind of a Value at runtime.
type ObjectType int

const (
	NilType ObjectType = iota
	BoolType
	NumberType
	StringType
	FunctionType
	NativeType
	ClassType
	InstanceType
)

// Object is the dynamic value type every expression evaluates to: the
// tagged union of spec §3's Value.
type Object interface {
	Type() ObjectType
	String() string
}

// Nil is the single instance representing the language's "nil" value.
type Nil struct{}

func (Nil) Type() ObjectType { return NilType }
func (Nil) String() string   { return "nil" }

var TheNil = Nil{}

// Bool wraps a boolean value.
type Bool bool

func (b Bool) Type() ObjectType { return BoolType }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps an IEEE-754 double. 'f'-format with -1 precision never
// emits a trailing ".0" for integer-valued numbers (spec §4.4/§8/§9) and
// otherwise uses Go's canonical shortest round-tripping decimal form.
type Number float64

func (n Number) Type() ObjectType { return NumberType }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// String wraps a text value.
type String string

func (s String) Type() ObjectType { return StringType }
func (s String) String() string   { return string(s) }

// Function is a user-defined function or method: a declaration paired with
// the environment it closed over.
type Function struct {
	name          string
	body          FunctionBody
	closure       *Environment
	isInitializer bool
}

func (f *Function) Type() ObjectType { return FunctionType }
func (f *Function) String() string {
	if f.name == "" {
		return "<fn>"
	}
	return "<fn>" + f.name
}

// Native is a built-in callable implemented in Go, such as clock().
type Native struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Object) (Object, error)
}

func (n *Native) Type() ObjectType { return NativeType }
func (n *Native) String() string   { return "<native fn>" + n.name }

// Class is a class value: a name, an optional superclass, and its own
// (non-inherited) methods.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Type() ObjectType { return ClassType }
func (c *Class) String() string   { return c.Name }

// FindMethod searches this class then its superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is an object built from a Class. Fields live in a swiss-table
// map: instances are created far more often than classes are declared, and
// every property read/write goes through this map, making it the hottest
// name->Value lookup in the interpreter besides Environment itself.
type Instance struct {
	class  *Class
	fields *swiss.Map[string, Object]
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: swiss.NewMap[string, Object](8)}
}

func (i *Instance) Type() ObjectType { return InstanceType }
func (i *Instance) String() string   { return i.class.Name + " instance" }

// Get resolves a property: fields shadow methods (spec §3 invariant).
func (i *Instance) Get(name Token) (Object, error) {
	if v, ok := i.fields.Get(name.Lexeme); ok {
		return v, nil
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

func (i *Instance) Set(name Token, value Object) {
	i.fields.Put(name.Lexeme, value)
}

// IsTruthy implements spec §4.4: nil and false are falsy, everything else
// (including 0 and "") is truthy.
func IsTruthy(obj Object) bool {
	switch v := obj.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// IsEqual implements the equality rules of spec §4.4.
func IsEqual(a, b Object) bool {
	_, aNil := a.(Nil)
	_, bNil := b.(Nil)
	if aNil && bNil {
		return true
	}
	if aNil || bNil {
		return false
	}

	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}
