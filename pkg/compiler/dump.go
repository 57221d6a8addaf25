package compiler

import (
	"fmt"
	"strings"
)

// DumpTree renders the AST as an indented tree, one node per line. It is a
// debugging aid for the -ast flag and makes no compilation decisions; it
// only needs the AST to be traversable.
func DumpTree(p *Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for i, s := range p.Stmts {
		dumpStmt(&sb, s, "", i == len(p.Stmts)-1)
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, prefix string, last bool, label string) string {
	branch, childPrefix := "├── ", prefix+"│   "
	if last {
		branch, childPrefix = "└── ", prefix+"    "
	}
	sb.WriteString(prefix + branch + label + "\n")
	return childPrefix
}

func dumpStmt(sb *strings.Builder, s Stmt, prefix string, last bool) {
	switch n := s.(type) {
	case *VarDecl:
		p := dumpNode(sb, prefix, last, "VarDecl "+n.Name+slotSuffix(n.Sym))
		dumpExpr(sb, n.Init, p, true)
	case *Assign:
		p := dumpNode(sb, prefix, last, "Assign "+n.Name+slotSuffix(n.Sym))
		dumpExpr(sb, n.Value, p, true)
	case *Print:
		p := dumpNode(sb, prefix, last, "Print")
		dumpExpr(sb, n.Expr, p, true)
	case *Block:
		p := dumpNode(sb, prefix, last, "Block")
		for i, st := range n.Stmts {
			dumpStmt(sb, st, p, i == len(n.Stmts)-1)
		}
	case *While:
		p := dumpNode(sb, prefix, last, "While")
		dumpExpr(sb, n.Cond, p, false)
		dumpStmt(sb, n.Body, p, true)
	case *If:
		p := dumpNode(sb, prefix, last, "If")
		dumpExpr(sb, n.Cond, p, n.Then == nil && n.Else == nil)
		dumpStmt(sb, n.Then, p, n.Else == nil)
		if n.Else != nil {
			dumpStmt(sb, n.Else, p, true)
		}
	default:
		dumpNode(sb, prefix, last, fmt.Sprintf("%T", s))
	}
}

func dumpExpr(sb *strings.Builder, e Expr, prefix string, last bool) {
	switch n := e.(type) {
	case *IntLit:
		dumpNode(sb, prefix, last, fmt.Sprintf("IntLit %d", n.Value))
	case *VarRef:
		dumpNode(sb, prefix, last, "VarRef "+n.Name+slotSuffix(n.Sym))
	case *Binary:
		p := dumpNode(sb, prefix, last, "Binary "+opText(n.Op))
		dumpExpr(sb, n.Left, p, false)
		dumpExpr(sb, n.Right, p, true)
	case *Unary:
		p := dumpNode(sb, prefix, last, "Unary "+opText(n.Op))
		dumpExpr(sb, n.Right, p, true)
	default:
		dumpNode(sb, prefix, last, fmt.Sprintf("%T", e))
	}
}

func slotSuffix(sym *Symbol) string {
	if sym == nil {
		return ""
	}
	return fmt.Sprintf(" (slot %d)", sym.Slot)
}
