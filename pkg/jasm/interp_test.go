package jasm

import "testing"

func testMethod(code []Instruction, maxStack, maxLocals int) *Method {
	return &Method{
		Name:       "main",
		Descriptor: "([Ljava/lang/String;)V",
		Code:       code,
		MaxStack:   maxStack,
		MaxLocals:  maxLocals,
	}
}

func TestExec_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		code []Instruction
		want int
	}{
		{"add", []Instruction{{Op: Iconst, A: 2}, {Op: Iconst, A: 3}, {Op: Iadd}, {Op: Print}}, 5},
		{"sub", []Instruction{{Op: Iconst, A: 2}, {Op: Iconst, A: 3}, {Op: Isub}, {Op: Print}}, -1},
		{"mul", []Instruction{{Op: Iconst, A: 4}, {Op: Iconst, A: 3}, {Op: Imul}, {Op: Print}}, 12},
		{"div", []Instruction{{Op: Iconst, A: 7}, {Op: Iconst, A: 2}, {Op: Idiv}, {Op: Print}}, 3},
		{"neg", []Instruction{{Op: Iconst, A: 9}, {Op: Ineg}, {Op: Print}}, -9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Exec(testMethod(tc.code, 2, 1))
			if err != nil {
				t.Fatalf("Exec failed: %v", err)
			}
			if len(tr.Output) != 1 || tr.Output[0] != tc.want {
				t.Errorf("output %v, want [%d]", tr.Output, tc.want)
			}
		})
	}
}

func TestExec_LoadStore(t *testing.T) {
	code := []Instruction{
		{Op: Iconst, A: 41},
		{Op: Istore, A: 2},
		{Op: Iload, A: 2},
		{Op: Iconst, A: 1},
		{Op: Iadd},
		{Op: Istore, A: 0},
	}
	tr, err := Exec(testMethod(code, 2, 3))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if tr.Locals[0] != 42 || tr.Locals[2] != 41 {
		t.Errorf("locals %v, want slot0=42 slot2=41", tr.Locals)
	}
}

func TestExec_ConditionalBranches(t *testing.T) {
	// Each comparison branch: push a and b, branch to Skip if the relation
	// holds, otherwise fall through and print a marker.
	tests := []struct {
		op    Op
		a, b  int
		taken bool
	}{
		{IfIcmpeq, 1, 1, true},
		{IfIcmpeq, 1, 2, false},
		{IfIcmpne, 1, 2, true},
		{IfIcmplt, 1, 2, true},
		{IfIcmplt, 2, 2, false},
		{IfIcmple, 2, 2, true},
		{IfIcmpgt, 3, 2, true},
		{IfIcmpge, 2, 3, false},
	}
	for _, tc := range tests {
		code := []Instruction{
			{Op: Iconst, A: tc.a},
			{Op: Iconst, A: tc.b},
			{Op: tc.op, Target: "Skip"},
			{Op: Iconst, A: 1},
			{Op: Print},
			{Op: Label, Target: "Skip"},
		}
		tr, err := Exec(testMethod(code, 2, 1))
		if err != nil {
			t.Fatalf("%s(%d,%d): Exec failed: %v", tc.op, tc.a, tc.b, err)
		}
		printed := len(tr.Output) == 1
		if printed == tc.taken {
			t.Errorf("%s(%d,%d): branch taken = %v, want %v", tc.op, tc.a, tc.b, !printed, tc.taken)
		}
	}
}

func TestExec_PeakStack(t *testing.T) {
	code := []Instruction{
		{Op: Iconst, A: 1},
		{Op: Iconst, A: 2},
		{Op: Iconst, A: 3},
		{Op: Iadd},
		{Op: Iadd},
		{Op: Print},
	}
	tr, err := Exec(testMethod(code, 3, 1))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if tr.PeakStack != 3 {
		t.Errorf("PeakStack = %d, want 3", tr.PeakStack)
	}
}

func TestExec_MalformedCode(t *testing.T) {
	tests := []struct {
		name string
		code []Instruction
	}{
		{"stack underflow", []Instruction{{Op: Iadd}}},
		{"undefined target", []Instruction{{Op: Goto, Target: "Nowhere"}}},
		{"slot out of range", []Instruction{{Op: Iconst, A: 1}, {Op: Istore, A: 5}}},
		{"value left on stack", []Instruction{{Op: Iconst, A: 1}}},
		{"division by zero", []Instruction{{Op: Iconst, A: 1}, {Op: Iconst, A: 0}, {Op: Idiv}, {Op: Print}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Exec(testMethod(tc.code, 4, 2)); err == nil {
				t.Error("Exec succeeded on malformed code")
			}
		})
	}
}

func TestExec_StepBudget(t *testing.T) {
	// An infinite loop must hit the step budget rather than hang.
	code := []Instruction{
		{Op: Label, Target: "Spin"},
		{Op: Goto, Target: "Spin"},
	}
	ip := NewInterp(100)
	if _, err := ip.Exec(testMethod(code, 0, 1)); err == nil {
		t.Error("Exec terminated an infinite loop without error")
	}
}

func TestExec_LabelVisits(t *testing.T) {
	// Count down from 3: the loop head is visited once per test, so four
	// visits for three body executions.
	code := []Instruction{
		{Op: Iconst, A: 3},
		{Op: Istore, A: 0},
		{Op: Label, Target: "Head"},
		{Op: Iload, A: 0},
		{Op: Ifeq, Target: "Done"},
		{Op: Iload, A: 0},
		{Op: Iconst, A: 1},
		{Op: Isub},
		{Op: Istore, A: 0},
		{Op: Goto, Target: "Head"},
		{Op: Label, Target: "Done"},
	}
	tr, err := Exec(testMethod(code, 2, 1))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if tr.LabelVisits["Head"] != 4 {
		t.Errorf("Head visited %d times, want 4", tr.LabelVisits["Head"])
	}
}
