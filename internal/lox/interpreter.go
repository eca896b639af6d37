package lox

import (
	"fmt"
	"io"
	"time"
)

// signalKind distinguishes the three non-local control-flow exits from
// spec §4.4/§9: Return, Break, and Continue. None of them are errors —
// they're threaded through execute's return value instead, the way
// spec §9 describes as "a dedicated result variant".
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

type signal struct {
	kind  signalKind
	value Object // populated for sigReturn
	tok   Token  // populated for sigBreak/sigContinue, for error attribution
}

var noSignal = signal{}

// Interpreter tree-walks a resolved Program. Globals holds the root scope
// (with clock predefined); locals is the resolver's side-table.
type Interpreter struct {
	Globals      *Environment
	locals       map[Expr]int
	out          io.Writer
	callDepth    int
	maxCallDepth int
}

// NewInterpreter builds an Interpreter with a fresh global scope. out
// receives everything `print` writes; maxCallDepth bounds recursion before
// a RuntimeError is raised in place of an actual stack overflow (spec §7).
func NewInterpreter(out io.Writer, maxCallDepth int) *Interpreter {
	in := &Interpreter{
		Globals:      NewEnvironment(nil),
		out:          out,
		maxCallDepth: maxCallDepth,
	}
	in.Globals.Define("clock", &Native{
		name:  "clock",
		arity: 0,
		fn: func(*Interpreter, []Object) (Object, error) {
			return Number(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})
	return in
}

// Interpret runs every top-level declaration of program against locals,
// the resolver's annotation side-table. It returns the single diagnostic
// that stopped execution, or nil on a clean run (spec §5: "runs to
// completion or to the first unhandled error").
func (in *Interpreter) Interpret(program *Program, locals map[Expr]int) *Diagnostic {
	in.locals = locals
	sig, err := in.executeStmts(program.Decls, in.Globals)
	if err != nil {
		return asDiagnostic(err)
	}
	if d := diagnosticForLeakedSignal(sig); d != nil {
		return d
	}
	return nil
}

func asDiagnostic(err error) *Diagnostic {
	if d, ok := err.(*Diagnostic); ok {
		return d
	}
	return &Diagnostic{Kind: RuntimeErrorKind, Message: err.Error()}
}

// diagnosticForLeakedSignal turns a break/continue that escaped every
// enclosing loop into the RuntimeError spec §7 calls for. A sigReturn
// reaching here would mean the resolver failed to reject a top-level
// return; it's treated the same way as defense in depth.
func diagnosticForLeakedSignal(sig signal) *Diagnostic {
	switch sig.kind {
	case sigBreak:
		return &Diagnostic{Kind: RuntimeErrorKind, Line: sig.tok.Line, Message: "'break' outside a loop."}
	case sigContinue:
		return &Diagnostic{Kind: RuntimeErrorKind, Line: sig.tok.Line, Message: "'continue' outside a loop."}
	case sigReturn:
		return &Diagnostic{Kind: RuntimeErrorKind, Message: "'return' outside a function."}
	default:
		return nil
	}
}

// executeStmts runs a flat statement list against env, stopping at the
// first error or non-local control-flow signal and propagating it to the
// caller. Both Block bodies and function bodies funnel through this.
func (in *Interpreter) executeStmts(stmts []Stmt, env *Environment) (signal, error) {
	for _, stmt := range stmts {
		sig, err := stmt.execute(in, env)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

// lookupVariable resolves a Variable/Self/Super read through the
// resolver's side-table when present, falling back to globals otherwise
// (spec §4.4: "Global vs. local lookup is decided entirely by the
// presence of a resolver entry").
func (in *Interpreter) lookupVariable(expr Expr, name Token, env *Environment) (Object, error) {
	if distance, ok := in.locals[expr]; ok {
		return env.GetAt(distance, name.Lexeme), nil
	}
	return in.Globals.Get(name)
}

// --------------------------- Statements ---------------------------

func (cd *ClassDecl) execute(in *Interpreter, env *Environment) (signal, error) {
	env.Define(cd.Name.Lexeme, TheNil)

	var super *Class
	if cd.Superclass != nil {
		obj, err := cd.Superclass.evaluate(in, env)
		if err != nil {
			return noSignal, err
		}
		c, ok := obj.(*Class)
		if !ok {
			return noSignal, newRuntimeError(cd.Superclass.Name, "Superclass must be a class.")
		}
		super = c
	}

	methodEnv := env
	if super != nil {
		methodEnv = NewEnvironment(env)
		methodEnv.Define("super", super)
	}

	methods := make(map[string]*Function, len(cd.Methods))
	for _, m := range cd.Methods {
		methods[m.Name.Lexeme] = &Function{
			name:          m.Name.Lexeme,
			body:          m.FunctionBody,
			closure:       methodEnv,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: cd.Name.Lexeme, Superclass: super, Methods: methods}
	if err := env.Assign(cd.Name, class); err != nil {
		return noSignal, err
	}
	return noSignal, nil
}

func (fd *FunDecl) execute(in *Interpreter, env *Environment) (signal, error) {
	env.Define(fd.Name.Lexeme, &Function{name: fd.Name.Lexeme, body: fd.FunctionBody, closure: env})
	return noSignal, nil
}

func (vd *VarDecl) execute(in *Interpreter, env *Environment) (signal, error) {
	value := Object(TheNil)
	if vd.Init != nil {
		v, err := vd.Init.evaluate(in, env)
		if err != nil {
			return noSignal, err
		}
		value = v
	}
	env.Define(vd.Name.Lexeme, value)
	return noSignal, nil
}

func (es *ExprStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	_, err := es.Expr.evaluate(in, env)
	return noSignal, err
}

func (ps *PrintStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	val, err := ps.Expr.evaluate(in, env)
	if err != nil {
		return noSignal, err
	}
	fmt.Fprintln(in.out, val.String())
	return noSignal, nil
}

func (rs *ReturnStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	val, err := rs.Expr.evaluate(in, env)
	if err != nil {
		return noSignal, err
	}
	return signal{kind: sigReturn, value: val}, nil
}

func (bs *BreakStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	return signal{kind: sigBreak, tok: bs.Keyword}, nil
}

func (cs *ContinueStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	return signal{kind: sigContinue, tok: cs.Keyword}, nil
}

func (is *IfStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	cond, err := is.Cond.evaluate(in, env)
	if err != nil {
		return noSignal, err
	}
	if IsTruthy(cond) {
		return is.ThenBranch.execute(in, env)
	}
	if is.ElseBranch != nil {
		return is.ElseBranch.execute(in, env)
	}
	return noSignal, nil
}

func (ws *WhileStmt) execute(in *Interpreter, env *Environment) (signal, error) {
	for {
		cond, err := ws.Cond.evaluate(in, env)
		if err != nil {
			return noSignal, err
		}
		if !IsTruthy(cond) {
			return noSignal, nil
		}

		sig, err := ws.Body.execute(in, env)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return noSignal, nil
		case sigContinue:
			continue
		case sigReturn:
			return sig, nil
		}
	}
}

func (b *Block) execute(in *Interpreter, env *Environment) (signal, error) {
	return in.executeStmts(b.Decls, NewEnvironment(env))
}

// --------------------------- Expressions ---------------------------

func (ae *AssignExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	val, err := ae.Value.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := in.locals[ae]; ok {
		env.AssignAt(distance, ae.Name.Lexeme, val)
		return val, nil
	}
	if err := in.Globals.Assign(ae.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (loe *LogicalExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	left, err := loe.Left.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	truthy := IsTruthy(left)
	if loe.Op.Type == OR {
		if truthy {
			return left, nil
		}
	} else if !truthy {
		return left, nil
	}
	return loe.Right.evaluate(in, env)
}

func (ue *UnaryExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	right, err := ue.Right.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	switch ue.Op.Type {
	case BANG:
		return Bool(!IsTruthy(right)), nil
	case MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, newRuntimeError(ue.Op, "Operand must be a number.")
		}
		return -n, nil
	}
	panic("unreachable unary operator " + ue.Op.Type.String())
}

func (ce *CallExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	calleeObj, err := ce.Callee.evaluate(in, env)
	if err != nil {
		return nil, err
	}

	args := make([]Object, 0, len(ce.Args))
	for _, a := range ce.Args {
		v, err := a.evaluate(in, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	callable, ok := calleeObj.(Callable)
	if !ok {
		return nil, newRuntimeError(ce.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, newRuntimeError(ce.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	in.callDepth++
	defer func() { in.callDepth-- }()
	if in.callDepth > in.maxCallDepth {
		return nil, newRuntimeError(ce.Paren, "Stack overflow.")
	}

	return callable.Call(in, args)
}

func (be *BinaryExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	left, err := be.Left.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	right, err := be.Right.evaluate(in, env)
	if err != nil {
		return nil, err
	}

	switch be.Op.Type {
	case PLUS:
		ls, lok := left.(String)
		rs, rok := right.(String)
		if lok && rok {
			return ls + rs, nil
		}
		if lok {
			return ls + String(right.String()), nil
		}
		if rok {
			return String(left.String()) + rs, nil
		}
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if lok && rok {
			return ln + rn, nil
		}
		return nil, newRuntimeError(be.Op, "Operands must be numbers")
	case MINUS:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a - b, nil
	case STAR:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a * b, nil
	case SLASH:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, newRuntimeError(be.Op, "Division by zero is not allowed.")
		}
		return a / b, nil
	case GREATER:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(a > b), nil
	case GREATER_EQUAL:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(a >= b), nil
	case LESS:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(a < b), nil
	case LESS_EQUAL:
		a, b, err := numberOperands(be.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(a <= b), nil
	case EQUAL_EQUAL:
		return Bool(IsEqual(left, right)), nil
	case BANG_EQUAL:
		return Bool(!IsEqual(left, right)), nil
	}
	panic("unreachable binary operator " + be.Op.Type.String())
}

func numberOperands(op Token, left, right Object) (Number, Number, error) {
	a, aok := left.(Number)
	b, bok := right.(Number)
	if !aok || !bok {
		return 0, 0, newRuntimeError(op, "Operands must be numbers")
	}
	return a, b, nil
}

func (ge *GroupExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	return ge.Inner.evaluate(in, env)
}

func (le *LiteralExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	return le.Value, nil
}

func (ve *VariableExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	return in.lookupVariable(ve, ve.Name, env)
}

func (se *SelfExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	return in.lookupVariable(se, se.Keyword, env)
}

func (se *SuperExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	distance, ok := in.locals[se]
	if !ok {
		return nil, newRuntimeError(se.Keyword, "Undefined variable 'super'.")
	}
	superclass, _ := env.GetAt(distance, "super").(*Class)
	self, _ := env.GetAt(distance-1, "self").(*Instance)

	method := superclass.FindMethod(se.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(se.Method, "Undefined property '"+se.Method.Lexeme+"'.")
	}
	return method.bind(self), nil
}

func (ge *GetExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	obj, err := ge.Object.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(ge.Name, "Only instances have properties.")
	}
	return inst.Get(ge.Name)
}

func (se *SetExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	obj, err := se.Object.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(se.Name, "Only instances have fields.")
	}
	val, err := se.Value.evaluate(in, env)
	if err != nil {
		return nil, err
	}
	inst.Set(se.Name, val)
	return val, nil
}

func (fe *FunctionExpr) evaluate(in *Interpreter, env *Environment) (Object, error) {
	return &Function{body: fe.FunctionBody, closure: env}, nil
}
