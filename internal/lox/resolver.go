package lox

// Resolver is a static pre-evaluation pass (spec §4.3). It walks the AST
// carrying a stack of lexical scopes and annotates every Variable/Assign/
// Self/Super node with how many enclosing environments to skip at
// evaluation time, so the Interpreter never has to re-walk the
// Environment chain for already-resolved references.
type Resolver struct {
	locals    map[Expr]int
	scopes    []map[string]bool
	funcType  functionType
	classType classType
	diags     []Diagnostic
}

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// NewResolver returns a Resolver ready to resolve a single program.
func NewResolver() *Resolver {
	return &Resolver{locals: make(map[Expr]int)}
}

// Resolve walks every top-level declaration and returns the annotated
// side-table plus any diagnostics collected along the way. The caller
// must not proceed to interpretation if any diagnostics were reported.
func Resolve(program *Program) (map[Expr]int, []Diagnostic) {
	r := NewResolver()
	for _, decl := range program.Decls {
		decl.resolve(r)
	}
	return r.locals, r.diags
}

func (r *Resolver) errorf(line int, message string) {
	r.diags = append(r.diags, Diagnostic{Kind: ResolverError, Line: line, Message: message})
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare inserts name -> false ("declared, not yet initialized"); a
// second declaration of the same name in the same non-global scope is a
// ResolverError.
func (r *Resolver) declare(tok Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[tok.Lexeme]; ok {
		r.errorf(tok.Line, "Already a variable named '"+tok.Lexeme+"' in this scope.")
	}
	scope[tok.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// declareSynthetic is declare()+define() for synthetic bindings ("self",
// "super") that have no Token of their own.
func (r *Resolver) declareSynthetic(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal records, for expr, how many scopes out name is found. A
// name not found in any local scope is left unrecorded: the interpreter
// treats that as a global lookup.
func (r *Resolver) resolveLocal(expr Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunctionBody(body FunctionBody, fnType functionType) {
	enclosingFn := r.funcType
	r.funcType = fnType

	r.beginScope()
	for _, p := range body.Params {
		r.declare(p)
		r.define(p.Lexeme)
	}
	for _, stmt := range body.Body {
		stmt.resolve(r)
	}
	r.endScope()

	r.funcType = enclosingFn
}

// --------------------------- Statements ---------------------------

func (cd *ClassDecl) resolve(r *Resolver) {
	enclosingClass := r.classType
	r.classType = classClass

	r.declare(cd.Name)
	r.define(cd.Name.Lexeme)

	if cd.Superclass != nil {
		if cd.Name.Lexeme == cd.Superclass.Name.Lexeme {
			r.errorf(cd.Superclass.Name.Line, "A class can't inherit from itself.")
		} else {
			r.classType = classSubclass
			cd.Superclass.resolve(r)
		}

		r.beginScope()
		r.declareSynthetic("super")
	}

	r.beginScope()
	r.declareSynthetic("self")

	for _, method := range cd.Methods {
		fnType := funcMethod
		if method.Name.Lexeme == "init" {
			fnType = funcInitializer
		}
		r.resolveFunctionBody(method.FunctionBody, fnType)
	}

	r.endScope()

	if cd.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
}

func (fd *FunDecl) resolve(r *Resolver) {
	r.declare(fd.Name)
	r.define(fd.Name.Lexeme)
	r.resolveFunctionBody(fd.FunctionBody, funcFunction)
}

func (vd *VarDecl) resolve(r *Resolver) {
	r.declare(vd.Name)
	if vd.Init != nil {
		vd.Init.resolve(r)
	}
	r.define(vd.Name.Lexeme)
}

func (es *ExprStmt) resolve(r *Resolver) { es.Expr.resolve(r) }

func (is *IfStmt) resolve(r *Resolver) {
	is.Cond.resolve(r)
	is.ThenBranch.resolve(r)
	if is.ElseBranch != nil {
		is.ElseBranch.resolve(r)
	}
}

func (ps *PrintStmt) resolve(r *Resolver) { ps.Expr.resolve(r) }

func (rs *ReturnStmt) resolve(r *Resolver) {
	if r.funcType == funcNone {
		r.errorf(rs.Keyword.Line, "Can't return from top-level code.")
	}
	if !rs.IsBare && r.funcType == funcInitializer {
		r.errorf(rs.Keyword.Line, "Can't return a value from an initializer.")
	}
	rs.Expr.resolve(r)
}

func (bs *BreakStmt) resolve(r *Resolver)    {}
func (cs *ContinueStmt) resolve(r *Resolver) {}

func (ws *WhileStmt) resolve(r *Resolver) {
	ws.Cond.resolve(r)
	ws.Body.resolve(r)
}

func (b *Block) resolve(r *Resolver) {
	r.beginScope()
	for _, decl := range b.Decls {
		decl.resolve(r)
	}
	r.endScope()
}

// --------------------------- Expressions ---------------------------

func (ae *AssignExpr) resolve(r *Resolver) {
	ae.Value.resolve(r)
	r.resolveLocal(ae, ae.Name.Lexeme)
}

func (se *SetExpr) resolve(r *Resolver) {
	se.Value.resolve(r)
	se.Object.resolve(r) // the name itself is resolved dynamically
}

func (se *SelfExpr) resolve(r *Resolver) {
	if r.classType == classNone {
		r.errorf(se.Keyword.Line, "Can't use 'self' outside of a class.")
		return
	}
	r.resolveLocal(se, se.Keyword.Lexeme)
}

func (loe *LogicalExpr) resolve(r *Resolver) {
	loe.Left.resolve(r)
	loe.Right.resolve(r)
}

func (be *BinaryExpr) resolve(r *Resolver) {
	be.Left.resolve(r)
	be.Right.resolve(r)
}

func (ue *UnaryExpr) resolve(r *Resolver) { ue.Right.resolve(r) }

func (ce *CallExpr) resolve(r *Resolver) {
	ce.Callee.resolve(r)
	for _, a := range ce.Args {
		a.resolve(r)
	}
}

func (ge *GetExpr) resolve(r *Resolver) { ge.Object.resolve(r) }

func (le *LiteralExpr) resolve(r *Resolver) {}

func (ge *GroupExpr) resolve(r *Resolver) { ge.Inner.resolve(r) }

func (ve *VariableExpr) resolve(r *Resolver) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1][ve.Name.Lexeme]; declared && !defined {
			r.errorf(ve.Name.Line, "Can't read local variable '"+ve.Name.Lexeme+"' in its own initializer.")
		}
	}
	r.resolveLocal(ve, ve.Name.Lexeme)
}

func (se *SuperExpr) resolve(r *Resolver) {
	if r.classType == classNone {
		r.errorf(se.Keyword.Line, "Can't use 'super' outside of a class.")
	} else if r.classType != classSubclass {
		r.errorf(se.Keyword.Line, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(se, se.Keyword.Lexeme)
}

func (fe *FunctionExpr) resolve(r *Resolver) {
	r.resolveFunctionBody(fe.FunctionBody, funcFunction)
}
