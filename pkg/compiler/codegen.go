package compiler

import (
	"fmt"

	"github.com/Baky9912/J-----compiler/pkg/jasm"
)

// CodeGen walks a resolved AST and emits stack-machine instructions.
//
// It tracks the operand-stack depth incrementally as it emits: expressions
// leave exactly one value, statements leave none, and the running maximum
// becomes the method's MaxStack. Because every construct is structured
// (both arms of a comparison diamond rejoin at the same depth), the linear
// running maximum equals the true peak reachable by executing the code.
type CodeGen struct {
	code      []jasm.Instruction
	nextLabel int
	depth     int
	maxDepth  int
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

// Generate compiles prog into a class named className. maxLocals is the
// slot count computed by the resolver; resolution must already have
// succeeded, so any inconsistency found here is an *InternalError.
func Generate(prog *Program, className string, maxLocals int) (*jasm.Class, error) {
	cg := newCodeGen()
	for _, s := range prog.Stmts {
		if err := cg.genStmt(s); err != nil {
			return nil, err
		}
	}

	c := jasm.NewClass(className)
	c.Main.Code = cg.code
	c.Main.MaxStack = cg.maxDepth
	c.Main.MaxLocals = maxLocals
	return c, nil
}

// newLabel returns a fresh label name; base keeps the output readable.
// The counter is per-method, so names are unique within the method.
func (cg *CodeGen) newLabel(base string) string {
	cg.nextLabel++
	return fmt.Sprintf("%s%d", base, cg.nextLabel)
}

// emit appends an instruction and applies its stack effect.
func (cg *CodeGen) emit(in jasm.Instruction) error {
	cg.code = append(cg.code, in)
	cg.depth += in.Op.StackEffect()
	if cg.depth < 0 {
		return internalf("operand stack underflow after %s", in)
	}
	if cg.depth > cg.maxDepth {
		cg.maxDepth = cg.depth
	}
	return nil
}

func (cg *CodeGen) genStmt(s Stmt) error {
	entry := cg.depth

	switch n := s.(type) {
	case *VarDecl:
		if n.Sym == nil {
			return internalf("unresolved declaration of %q", n.Name)
		}
		if err := cg.genExpr(n.Init); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Istore, A: n.Sym.Slot}); err != nil {
			return err
		}

	case *Assign:
		if n.Sym == nil {
			return internalf("unresolved assignment to %q", n.Name)
		}
		if err := cg.genExpr(n.Value); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Istore, A: n.Sym.Slot}); err != nil {
			return err
		}

	case *Print:
		if err := cg.genExpr(n.Expr); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Print}); err != nil {
			return err
		}

	case *Block:
		for _, st := range n.Stmts {
			if err := cg.genStmt(st); err != nil {
				return err
			}
		}

	case *While:
		test := cg.newLabel("Loop_test_")
		end := cg.newLabel("Loop_end_")
		if err := cg.emit(jasm.Instruction{Op: jasm.Label, Target: test}); err != nil {
			return err
		}
		if err := cg.genExpr(n.Cond); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Ifeq, Target: end}); err != nil {
			return err
		}
		if err := cg.genStmt(n.Body); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Goto, Target: test}); err != nil {
			return err
		}
		if err := cg.emit(jasm.Instruction{Op: jasm.Label, Target: end}); err != nil {
			return err
		}

	case *If:
		if err := cg.genIf(n, ""); err != nil {
			return err
		}

	default:
		return internalf("codegen: unknown statement node %T", s)
	}

	if cg.depth != entry {
		return internalf("statement %s has net stack effect %d, want 0", s, cg.depth-entry)
	}
	return nil
}

// genIf compiles one link of an if / else if / else chain. The whole chain
// shares a single end label: every branch body jumps to it, and it is
// emitted once by the outermost link (end == "").
func (cg *CodeGen) genIf(n *If, end string) error {
	top := end == ""
	if top {
		end = cg.newLabel("If_end_")
	}
	next := cg.newLabel("If_next_")

	if err := cg.genExpr(n.Cond); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Ifeq, Target: next}); err != nil {
		return err
	}
	if err := cg.genStmt(n.Then); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Goto, Target: end}); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Label, Target: next}); err != nil {
		return err
	}

	switch e := n.Else.(type) {
	case nil:
	case *If:
		if err := cg.genIf(e, end); err != nil {
			return err
		}
	case *Block:
		if err := cg.genStmt(e); err != nil {
			return err
		}
	default:
		return internalf("codegen: unknown else node %T", n.Else)
	}

	if top {
		return cg.emit(jasm.Instruction{Op: jasm.Label, Target: end})
	}
	return nil
}

func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *IntLit:
		return cg.emit(jasm.Instruction{Op: jasm.Iconst, A: n.Value})

	case *VarRef:
		if n.Sym == nil {
			return internalf("unresolved variable %q", n.Name)
		}
		return cg.emit(jasm.Instruction{Op: jasm.Iload, A: n.Sym.Slot})

	case *Unary:
		if n.Op != MINUS {
			return internalf("codegen: unknown unary operator %s", n.Op)
		}
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		return cg.emit(jasm.Instruction{Op: jasm.Ineg})

	case *Binary:
		if err := cg.genExpr(n.Left); err != nil {
			return err
		}
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		if isComparison(n.Op) {
			return cg.genComparison(n.Op)
		}
		var op jasm.Op
		switch n.Op {
		case PLUS:
			op = jasm.Iadd
		case MINUS:
			op = jasm.Isub
		case STAR:
			op = jasm.Imul
		case SLASH:
			op = jasm.Idiv
		default:
			return internalf("codegen: unknown binary operator %s", n.Op)
		}
		return cg.emit(jasm.Instruction{Op: op})

	default:
		return internalf("codegen: unknown expression node %T", e)
	}
}

// genComparison materialises a comparison as 0 or 1: branch to the true
// arm, fall through to push 0, jump over the arm that pushes 1.
func (cg *CodeGen) genComparison(op TokenType) error {
	var jump jasm.Op
	switch op {
	case EQUALS:
		jump = jasm.IfIcmpeq
	case NOT_EQ:
		jump = jasm.IfIcmpne
	case LESS:
		jump = jasm.IfIcmplt
	case LESS_EQ:
		jump = jasm.IfIcmple
	case GREATER:
		jump = jasm.IfIcmpgt
	case GREATER_EQ:
		jump = jasm.IfIcmpge
	default:
		return internalf("codegen: unknown comparison operator %s", op)
	}

	ltrue := cg.newLabel("Cmp_true_")
	lend := cg.newLabel("Cmp_end_")

	if err := cg.emit(jasm.Instruction{Op: jump, Target: ltrue}); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Iconst, A: 0}); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Goto, Target: lend}); err != nil {
		return err
	}
	if err := cg.emit(jasm.Instruction{Op: jasm.Label, Target: ltrue}); err != nil {
		return err
	}
	// The two iconst arms are alternatives, not sequential: undo the first
	// arm's push before accounting for the second, or the running depth
	// would overcount by one.
	cg.depth--
	if err := cg.emit(jasm.Instruction{Op: jasm.Iconst, A: 1}); err != nil {
		return err
	}
	return cg.emit(jasm.Instruction{Op: jasm.Label, Target: lend})
}
