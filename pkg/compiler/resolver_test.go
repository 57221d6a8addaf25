package compiler

import (
	"errors"
	"strings"
	"testing"
)

// resolveSource parses and resolves src, failing the test on any error.
func resolveSource(t *testing.T, src string) (*Program, int) {
	t.Helper()
	prog := parseSource(t, src)
	maxLocals, err := Resolve(prog)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return prog, maxLocals
}

func TestResolve_SlotAssignment(t *testing.T) {
	prog, maxLocals := resolveSource(t, "var x = 1; var y = 2; print x; print y;")

	x := prog.Stmts[0].(*VarDecl)
	y := prog.Stmts[1].(*VarDecl)
	if x.Sym == nil || y.Sym == nil {
		t.Fatal("declarations not annotated with symbols")
	}
	if x.Sym.Slot != 0 || y.Sym.Slot != 1 {
		t.Errorf("slots (%d, %d), want (0, 1)", x.Sym.Slot, y.Sym.Slot)
	}
	if maxLocals != 2 {
		t.Errorf("maxLocals = %d, want 2", maxLocals)
	}

	// References resolve to the same symbols as the declarations.
	px := prog.Stmts[2].(*Print).Expr.(*VarRef)
	if px.Sym != x.Sym {
		t.Error("print x does not reference x's symbol")
	}
}

func TestResolve_Shadowing(t *testing.T) {
	src := `var x = 1;
{
	var x = 2;
	print x;
}
print x;
`
	prog, _ := resolveSource(t, src)

	outer := prog.Stmts[0].(*VarDecl)
	block := prog.Stmts[1].(*Block)
	inner := block.Stmts[0].(*VarDecl)
	innerRef := block.Stmts[1].(*Print).Expr.(*VarRef)
	outerRef := prog.Stmts[2].(*Print).Expr.(*VarRef)

	if inner.Sym == outer.Sym {
		t.Fatal("inner declaration shares a symbol with the outer one")
	}
	if innerRef.Sym != inner.Sym {
		t.Error("reference inside the block does not resolve to the inner declaration")
	}
	if outerRef.Sym != outer.Sym {
		t.Error("reference after the block does not resolve back to the outer declaration")
	}
	if inner.Sym.Slot != 1 {
		t.Errorf("inner slot = %d, want 1 (next free after outer)", inner.Sym.Slot)
	}
}

func TestResolve_SiblingScopesReuseSlots(t *testing.T) {
	src := `var a = 1;
{ var b = 2; print b; }
{ var c = 3; print c; }
`
	prog, maxLocals := resolveSource(t, src)

	b := prog.Stmts[1].(*Block).Stmts[0].(*VarDecl)
	c := prog.Stmts[2].(*Block).Stmts[0].(*VarDecl)
	if b.Sym.Slot != 1 || c.Sym.Slot != 1 {
		t.Errorf("sibling slots (%d, %d), want both 1 (range recycled)", b.Sym.Slot, c.Sym.Slot)
	}
	if maxLocals != 2 {
		t.Errorf("maxLocals = %d, want 2 (high-water mark)", maxLocals)
	}
}

func TestResolve_LocalsAtLeastOne(t *testing.T) {
	// Main always receives the args array in slot 0, so a program with no
	// variables still declares one local.
	_, maxLocals := resolveSource(t, "print 42;")
	if maxLocals != 1 {
		t.Errorf("maxLocals = %d, want 1", maxLocals)
	}
}

func TestResolve_Redeclaration(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"adjacent", "var x = 1; var x = 2;"},
		{"separated", "var x = 1; print x; var x = 2;"},
		{"inside block", "{ var x = 1; var x = 2; }"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog := parseSource(t, tc.src)
			_, err := Resolve(prog)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want error", tc.src)
			}
			var semErr *SemanticError
			if !errors.As(err, &semErr) {
				t.Fatalf("got %T, want *SemanticError", err)
			}
			if !strings.Contains(semErr.Msg, `redeclaration of "x"`) {
				t.Errorf("message %q does not name the redeclared variable", semErr.Msg)
			}
		})
	}
}

func TestResolve_ShadowingIsNotRedeclaration(t *testing.T) {
	resolveSource(t, "var x = 1; { var x = 2; }")
}

func TestResolve_Undeclared(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		wantLine int
	}{
		{"read", "print y;", "y", 1},
		{"assign", "y = 1;", "y", 1},
		{"in expression", "var x = 1;\nprint x + y;", "y", 2},
		{"out of scope", "{ var x = 1; }\nprint x;", "x", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog := parseSource(t, tc.src)
			_, err := Resolve(prog)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want error", tc.src)
			}
			var semErr *SemanticError
			if !errors.As(err, &semErr) {
				t.Fatalf("got %T, want *SemanticError", err)
			}
			if !strings.Contains(semErr.Msg, `"`+tc.wantName+`"`) {
				t.Errorf("message %q does not name %q", semErr.Msg, tc.wantName)
			}
			if semErr.Line != tc.wantLine {
				t.Errorf("error at line %d, want %d", semErr.Line, tc.wantLine)
			}
		})
	}
}

func TestResolve_UseBeforeDeclaration(t *testing.T) {
	// A declaration becomes visible only from its var statement onwards, so
	// the initializer of a shadowing declaration sees the outer binding.
	prog, _ := resolveSource(t, "var x = 1; { var x = x + 1; }")
	outer := prog.Stmts[0].(*VarDecl)
	inner := prog.Stmts[1].(*Block).Stmts[0].(*VarDecl)
	ref := inner.Init.(*Binary).Left.(*VarRef)
	if ref.Sym != outer.Sym {
		t.Error("initializer reference resolved to the declaration being introduced, want the outer binding")
	}

	// Without an outer binding the same program is an error.
	prog2 := parseSource(t, "{ var x = x + 1; }")
	if _, err := Resolve(prog2); err == nil {
		t.Error("self-referential initializer resolved, want SemanticError")
	}
}

func TestResolve_WhileAndIfScopes(t *testing.T) {
	src := `var i = 0;
while (i < 2) {
	var t = i * 2;
	i = t + 1;
}
if (i == 3) {
	var t = 99;
	print t;
} else {
	var t = 100;
	print t;
}
`
	_, maxLocals := resolveSource(t, src)
	// i in slot 0; each t recycles slot 1.
	if maxLocals != 2 {
		t.Errorf("maxLocals = %d, want 2", maxLocals)
	}
}
