package lox

// Callable is satisfied by every value that can appear on the left of a
// CallExpr: user functions, the native clock(), and classes (whose call
// constructs an instance).
type Callable interface {
	Call(in *Interpreter, args []Object) (Object, error)
	Arity() int
}

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Native)(nil)
	_ Callable = (*Class)(nil)
)

// Arity is the parameter count the declaration fixes.
func (f *Function) Arity() int { return len(f.body.Params) }

// Call binds parameters positionally in a fresh environment enclosing the
// function's closure and runs the body as a block (spec §4.4). Falling
// off the end returns nil, except in an initializer, where both a bare
// "return;" and falling off the end return the bound self.
func (f *Function) Call(in *Interpreter, args []Object) (Object, error) {
	callEnv := NewEnvironment(f.closure)
	for i, p := range f.body.Params {
		callEnv.Define(p.Lexeme, args[i])
	}

	sig, err := in.executeStmts(f.body.Body, callEnv)
	if err != nil {
		return nil, err
	}

	switch sig.kind {
	case sigReturn:
		if f.isInitializer {
			return f.closure.GetAt(0, "self"), nil
		}
		return sig.value, nil
	case sigBreak:
		return nil, &Diagnostic{Kind: RuntimeErrorKind, Line: sig.tok.Line, Message: "'break' outside a loop."}
	case sigContinue:
		return nil, &Diagnostic{Kind: RuntimeErrorKind, Line: sig.tok.Line, Message: "'continue' outside a loop."}
	default:
		if f.isInitializer {
			return f.closure.GetAt(0, "self"), nil
		}
		return TheNil, nil
	}
}

// bind returns a new Function whose closure wraps f's closure with a
// one-entry environment defining "self" as instance (spec §4.4's "bound
// method").
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("self", instance)
	return &Function{name: f.name, body: f.body, closure: env, isInitializer: f.isInitializer}
}

func (n *Native) Arity() int { return n.arity }
func (n *Native) Call(in *Interpreter, args []Object) (Object, error) {
	return n.fn(in, args)
}

// Arity mirrors init's arity, or 0 with no initializer.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an Instance and, if the class defines init, binds and
// runs it against the constructor arguments.
func (c *Class) Call(in *Interpreter, args []Object) (Object, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
