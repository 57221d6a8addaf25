package compiler

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value. genExpr compiles
// an Expr to an instruction sequence with a net stack effect of +1.
//
// String renders the node back to J-- source; re-parsing the result yields a
// structurally equivalent tree.
type Expr interface {
	exprNode()
	Pos() (line, col int)
	String() string
}

// IntLit is a compile-time integer constant.
//
//	var x = 10;
//	         ^^  IntLit{Value: 10}
type IntLit struct {
	Value     int
	Line, Col int
}

func (*IntLit) exprNode()         {}
func (l *IntLit) Pos() (int, int) { return l.Line, l.Col }
func (l *IntLit) String() string  { return fmt.Sprintf("%d", l.Value) }

// VarRef is a read of a named variable.
//
//	print x;
//	      ^  VarRef{Name: "x"}
//
// Sym is nil until the resolver binds the reference to its declaration.
type VarRef struct {
	Name      string
	Line, Col int
	Sym       *Symbol
}

func (*VarRef) exprNode()         {}
func (v *VarRef) Pos() (int, int) { return v.Line, v.Col }
func (v *VarRef) String() string  { return v.Name }

// Binary represents Left Op Right for both arithmetic (+ - * /) and
// comparison (== != < <= > >=) operators. Comparisons produce 0 or 1.
type Binary struct {
	Op          TokenType
	Left, Right Expr
	Line, Col   int
}

func (*Binary) exprNode()         {}
func (b *Binary) Pos() (int, int) { return b.Line, b.Col }
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, opText(b.Op), b.Right)
}

// Unary represents Op Right; the only J-- unary operator is negation.
type Unary struct {
	Op        TokenType
	Right     Expr
	Line, Col int
}

func (*Unary) exprNode()         {}
func (u *Unary) Pos() (int, int) { return u.Line, u.Col }
func (u *Unary) String() string  { return fmt.Sprintf("(%s%s)", opText(u.Op), u.Right) }

//  Statement nodes

// Stmt is implemented by every node that does not produce a value. genStmt
// compiles a Stmt to an instruction sequence with a net stack effect of 0.
type Stmt interface {
	stmtNode()
	Pos() (line, col int)
	String() string
}

// VarDecl represents  var name = expr;
// The resolver fills Sym with the slot assigned in the enclosing scope.
type VarDecl struct {
	Name      string
	Init      Expr
	Line, Col int
	Sym       *Symbol
}

func (*VarDecl) stmtNode()         {}
func (d *VarDecl) Pos() (int, int) { return d.Line, d.Col }
func (d *VarDecl) String() string  { return fmt.Sprintf("var %s = %s;", d.Name, d.Init) }

// Assign represents  name = expr;
// Unlike VarDecl it never introduces a binding; the resolver binds Sym to a
// declaration already in scope.
type Assign struct {
	Name      string
	Value     Expr
	Line, Col int
	Sym       *Symbol
}

func (*Assign) stmtNode()         {}
func (a *Assign) Pos() (int, int) { return a.Line, a.Col }
func (a *Assign) String() string  { return fmt.Sprintf("%s = %s;", a.Name, a.Value) }

// Print represents  print expr;
type Print struct {
	Expr      Expr
	Line, Col int
}

func (*Print) stmtNode()         {}
func (p *Print) Pos() (int, int) { return p.Line, p.Col }
func (p *Print) String() string  { return fmt.Sprintf("print %s;", p.Expr) }

// Block represents { statement... } and opens a fresh lexical scope.
type Block struct {
	Stmts     []Stmt
	Line, Col int
}

func (*Block) stmtNode()         {}
func (b *Block) Pos() (int, int) { return b.Line, b.Col }
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range b.Stmts {
		sb.WriteString(s.String())
		sb.WriteByte(' ')
	}
	sb.WriteByte('}')
	return sb.String()
}

// If represents if (cond) then-block, with Else holding either the final
// else block (*Block), the next link of an else-if chain (*If), or nil.
type If struct {
	Cond      Expr
	Then      *Block
	Else      Stmt // *If, *Block, or nil
	Line, Col int
}

func (*If) stmtNode()         {}
func (i *If) Pos() (int, int) { return i.Line, i.Col }
func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// While represents while (cond) body.
type While struct {
	Cond      Expr
	Body      *Block
	Line, Col int
}

func (*While) stmtNode()         {}
func (w *While) Pos() (int, int) { return w.Line, w.Col }
func (w *While) String() string  { return fmt.Sprintf("while (%s) %s", w.Cond, w.Body) }

// Program is the root of the AST: the top-level statement list, which
// becomes the body of the emitted class's main method.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Stmts {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// opText returns the J-- source spelling of an operator token.
func opText(tt TokenType) string {
	switch tt {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case EQUALS:
		return "=="
	case NOT_EQ:
		return "!="
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	default:
		return tt.String()
	}
}

// isComparison reports whether tt is one of the six comparison operators.
func isComparison(tt TokenType) bool {
	switch tt {
	case EQUALS, NOT_EQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return true
	}
	return false
}
