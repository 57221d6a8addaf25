// Package jasm models JVM stack-machine instructions at the level of the
// Jasmin assembler's textual dialect: symbolic opcodes, integer operands,
// and named branch labels that are never resolved to numeric offsets here
// (Jasmin itself accepts named labels).
package jasm

import "fmt"

// Op is a stack-machine opcode.
type Op int

const (
	// Constants and locals
	Iconst Op = iota // push the A operand (emitter picks the narrowest encoding)
	Iload            // push local slot A
	Istore           // pop into local slot A

	// Arithmetic
	Iadd
	Isub
	Imul
	Idiv
	Ineg

	// Comparison branches: pop two ints, jump to Target if the relation holds
	IfIcmpeq
	IfIcmpne
	IfIcmplt
	IfIcmple
	IfIcmpgt
	IfIcmpge

	// Branches on a single popped int
	Ifeq // jump to Target if popped value == 0

	Goto  // unconditional jump to Target
	Label // pseudo-instruction: Target names a branch target position

	// Print pops one int and writes it to standard output followed by a
	// newline. It is a pseudo-op: the emitter expands it to the
	// getstatic/swap/invokevirtual sequence.
	Print

	Return
)

var opNames = [...]string{
	Iconst:   "iconst",
	Iload:    "iload",
	Istore:   "istore",
	Iadd:     "iadd",
	Isub:     "isub",
	Imul:     "imul",
	Idiv:     "idiv",
	Ineg:     "ineg",
	IfIcmpeq: "if_icmpeq",
	IfIcmpne: "if_icmpne",
	IfIcmplt: "if_icmplt",
	IfIcmple: "if_icmple",
	IfIcmpgt: "if_icmpgt",
	IfIcmpge: "if_icmpge",
	Ifeq:     "ifeq",
	Goto:     "goto",
	Label:    "label",
	Print:    "print",
	Return:   "return",
}

func init() {
	if len(opNames) != int(Return)+1 {
		panic("opNames out of sync with Op constants")
	}
}

func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// StackEffect returns the net change in operand-stack depth caused by op.
// Every J-- opcode has a fixed effect, which is what lets the code
// generator track the running maximum exactly.
func (op Op) StackEffect() int {
	switch op {
	case Iconst, Iload:
		return +1
	case Istore, Iadd, Isub, Imul, Idiv, Ifeq, Print:
		return -1
	case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmple, IfIcmpgt, IfIcmpge:
		return -2
	case Ineg, Goto, Label, Return:
		return 0
	default:
		panic(fmt.Sprintf("StackEffect not defined for %s", op))
	}
}

// HasTarget reports whether op carries a branch-target label.
func (op Op) HasTarget() bool {
	switch op {
	case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmple, IfIcmpgt, IfIcmpge, Ifeq, Goto, Label:
		return true
	}
	return false
}

// Instruction is one stack-machine operation: an opcode plus its operand.
// A holds the integer operand (constant value or local slot) for Iconst,
// Iload and Istore; Target holds the label name for branches and for the
// Label pseudo-instruction itself.
type Instruction struct {
	Op     Op
	A      int
	Target string
}

func (in Instruction) String() string {
	switch {
	case in.Op == Label:
		return in.Target + ":"
	case in.Op.HasTarget():
		return fmt.Sprintf("%s %s", in.Op, in.Target)
	case in.Op == Iconst, in.Op == Iload, in.Op == Istore:
		return fmt.Sprintf("%s %d", in.Op, in.A)
	default:
		return in.Op.String()
	}
}

// Method is one compiled method: its instruction list in emission order
// plus the two limits the Jasmin method header requires. MaxStack is the
// exact peak operand-stack depth of the instruction list, as tracked by the
// code generator; MaxLocals counts local-variable slots.
type Method struct {
	Name       string
	Descriptor string
	Code       []Instruction
	MaxStack   int
	MaxLocals  int
}

// Class is the wrapper around one compiled program: a public class with a
// default constructor and a single static main method holding all code.
type Class struct {
	Name  string
	Super string
	Main  *Method
}

// NewClass returns a Class named name with the standard superclass and an
// empty main method.
func NewClass(name string) *Class {
	return &Class{
		Name:  name,
		Super: "java/lang/Object",
		Main: &Method{
			Name:       "main",
			Descriptor: "([Ljava/lang/String;)V",
		},
	}
}
