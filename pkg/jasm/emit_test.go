package jasm

import (
	"strings"
	"testing"
)

// assertContains checks that the emitted text contains the expected line.
func assertContains(t *testing.T, text, expected string) {
	t.Helper()
	if !strings.Contains(text, expected) {
		t.Errorf("expected output to contain %q, but it didn't.\nOutput:\n%s", expected, text)
	}
}

func testClass(code []Instruction, maxStack, maxLocals int) *Class {
	c := NewClass("Test")
	c.Main.Code = code
	c.Main.MaxStack = maxStack
	c.Main.MaxLocals = maxLocals
	return c
}

func TestEmit_ClassWrapper(t *testing.T) {
	text, err := Emit(testClass(nil, 0, 1))
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	assertContains(t, text, ".class public Test")
	assertContains(t, text, ".super java/lang/Object")
	assertContains(t, text, ".method public <init>()V")
	assertContains(t, text, "invokespecial java/lang/Object/<init>()V")
	assertContains(t, text, ".method public static main([Ljava/lang/String;)V")
	assertContains(t, text, ".end method")
	if !strings.HasSuffix(strings.TrimRight(text, "\n"), ".end method") {
		t.Error("output does not end with .end method")
	}
}

func TestEmit_Limits(t *testing.T) {
	text, err := Emit(testClass([]Instruction{{Op: Iconst, A: 1}, {Op: Istore, A: 0}}, 1, 1))
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	assertContains(t, text, ".limit stack 1")
	assertContains(t, text, ".limit locals 1")
}

func TestEmit_ConstEncodings(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{-1, "iconst_m1"},
		{0, "iconst_0"},
		{5, "iconst_5"},
		{6, "bipush 6"},
		{-2, "bipush -2"},
		{127, "bipush 127"},
		{128, "sipush 128"},
		{-32768, "sipush -32768"},
		{32767, "sipush 32767"},
		{32768, "ldc 32768"},
		{-40000, "ldc -40000"},
	}
	for _, tc := range tests {
		text, err := Emit(testClass([]Instruction{{Op: Iconst, A: tc.value}, {Op: Istore, A: 0}}, 1, 1))
		if err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
		assertContains(t, text, tc.want)
	}
}

func TestEmit_SlotShortForms(t *testing.T) {
	tests := []struct {
		slot int
		want []string
	}{
		{0, []string{"iload_0", "istore_0"}},
		{3, []string{"iload_3", "istore_3"}},
		{4, []string{"iload 4", "istore 4"}},
		{10, []string{"iload 10", "istore 10"}},
	}
	for _, tc := range tests {
		code := []Instruction{
			{Op: Iconst, A: 1},
			{Op: Istore, A: tc.slot},
			{Op: Iload, A: tc.slot},
			{Op: Istore, A: tc.slot},
		}
		text, err := Emit(testClass(code, 1, tc.slot+1))
		if err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
		for _, w := range tc.want {
			assertContains(t, text, w)
		}
	}
}

func TestEmit_PrintExpansion(t *testing.T) {
	code := []Instruction{{Op: Iconst, A: 7}, {Op: Print}}
	text, err := Emit(testClass(code, 1, 1))
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	assertContains(t, text, "getstatic java/lang/System/out Ljava/io/PrintStream;")
	assertContains(t, text, "swap")
	assertContains(t, text, "invokevirtual java/io/PrintStream/println(I)V")
	// The expansion parks the stream above the printed value, so the
	// header needs one slot of headroom beyond the tracked peak.
	assertContains(t, text, ".limit stack 2")
}

func TestEmit_LabelsAndBranches(t *testing.T) {
	code := []Instruction{
		{Op: Label, Target: "Loop_test_1"},
		{Op: Iconst, A: 0},
		{Op: Ifeq, Target: "Loop_end_2"},
		{Op: Goto, Target: "Loop_test_1"},
		{Op: Label, Target: "Loop_end_2"},
	}
	text, err := Emit(testClass(code, 1, 1))
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	assertContains(t, text, "Loop_test_1:")
	assertContains(t, text, "  ifeq Loop_end_2")
	assertContains(t, text, "  goto Loop_test_1")
}

func TestEmit_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		code []Instruction
	}{
		{"undefined target", []Instruction{{Op: Goto, Target: "Nowhere"}}},
		{"duplicate label", []Instruction{
			{Op: Label, Target: "L1"},
			{Op: Label, Target: "L1"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Emit(testClass(tc.code, 0, 1)); err == nil {
				t.Error("Emit succeeded on malformed input")
			}
		})
	}

	if _, err := Emit(&Class{Name: "NoMain"}); err == nil {
		t.Error("Emit succeeded on a class without a main method")
	}
}
