package compiler

import "fmt"

// Symbol is a resolved local variable: its name, the local-variable slot it
// occupies in the emitted method, and the position of its declaration.
type Symbol struct {
	Name      string
	Slot      int
	Line, Col int
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s -> slot %d (declared at %d:%d)", s.Name, s.Slot, s.Line, s.Col)
}

// Resolver walks the AST binding every VarRef/Assign/VarDecl to a Symbol
// and assigning each declaration a local-variable slot.
//
// Scoping rules: a block opens a fresh scope; lookup walks the scope stack
// from innermost to outermost, so inner declarations shadow outer ones;
// declaring the same name twice in one scope is an error; a declaration is
// visible only from its var statement onwards.
//
// Slot policy: a nested scope inherits the next free slot from its parent,
// and the counter is restored when the scope closes, so sibling scopes
// recycle slot numbers. MaxLocals reports the high-water mark, which keeps
// the method's declared locals count minimal. Slots start at 0; slot 0 is
// main's args array on entry and may be legally overwritten.
type Resolver struct {
	scopes   []map[string]*Symbol
	nextSlot int
	maxSlot  int // high-water mark of nextSlot
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve annotates prog in place and returns the locals count the emitted
// method must declare (at least 1, for main's args slot). The returned
// error is the first *SemanticError found.
func Resolve(prog *Program) (maxLocals int, err error) {
	r := NewResolver()
	r.pushScope()
	defer r.popScope()
	for _, s := range prog.Stmts {
		if err := r.resolveStmt(s); err != nil {
			return 0, err
		}
	}
	if r.maxSlot < 1 {
		return 1, nil
	}
	return r.maxSlot, nil
}

func (r *Resolver) pushScope() {
	r.scopes = append(r.scopes, make(map[string]*Symbol))
}

func (r *Resolver) popScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare binds name in the current scope and assigns the next free slot.
func (r *Resolver) declare(name string, line, col int) (*Symbol, error) {
	current := r.scopes[len(r.scopes)-1]
	if prev, ok := current[name]; ok {
		return nil, &SemanticError{
			Line: line,
			Col:  col,
			Msg: fmt.Sprintf("redeclaration of %q (already declared in this scope at %d:%d)",
				name, prev.Line, prev.Col),
		}
	}
	sym := &Symbol{Name: name, Slot: r.nextSlot, Line: line, Col: col}
	current[name] = sym
	r.nextSlot++
	if r.nextSlot > r.maxSlot {
		r.maxSlot = r.nextSlot
	}
	return sym, nil
}

// lookup searches the scope stack from innermost to outermost.
func (r *Resolver) lookup(name string) *Symbol {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if sym, ok := r.scopes[i][name]; ok {
			return sym
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(s Stmt) error {
	switch n := s.(type) {
	case *VarDecl:
		// The initializer is resolved before the name becomes visible,
		// so `var x = x;` refers to an outer x or fails.
		if err := r.resolveExpr(n.Init); err != nil {
			return err
		}
		sym, err := r.declare(n.Name, n.Line, n.Col)
		if err != nil {
			return err
		}
		n.Sym = sym

	case *Assign:
		if err := r.resolveExpr(n.Value); err != nil {
			return err
		}
		sym := r.lookup(n.Name)
		if sym == nil {
			return undeclared(n.Name, n.Line, n.Col)
		}
		n.Sym = sym

	case *Print:
		return r.resolveExpr(n.Expr)

	case *Block:
		r.pushScope()
		saved := r.nextSlot
		for _, st := range n.Stmts {
			if err := r.resolveStmt(st); err != nil {
				r.popScope()
				return err
			}
		}
		r.popScope()
		r.nextSlot = saved // sibling scopes reuse the slot range

	case *While:
		if err := r.resolveExpr(n.Cond); err != nil {
			return err
		}
		return r.resolveStmt(n.Body)

	case *If:
		if err := r.resolveExpr(n.Cond); err != nil {
			return err
		}
		if err := r.resolveStmt(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return r.resolveStmt(n.Else)
		}

	default:
		return internalf("resolver: unknown statement node %T", s)
	}
	return nil
}

func (r *Resolver) resolveExpr(e Expr) error {
	switch n := e.(type) {
	case *IntLit:
		return nil
	case *VarRef:
		sym := r.lookup(n.Name)
		if sym == nil {
			return undeclared(n.Name, n.Line, n.Col)
		}
		n.Sym = sym
		return nil
	case *Binary:
		if err := r.resolveExpr(n.Left); err != nil {
			return err
		}
		return r.resolveExpr(n.Right)
	case *Unary:
		return r.resolveExpr(n.Right)
	default:
		return internalf("resolver: unknown expression node %T", e)
	}
}

func undeclared(name string, line, col int) error {
	return &SemanticError{
		Line: line,
		Col:  col,
		Msg:  fmt.Sprintf("undeclared variable %q", name),
	}
}
