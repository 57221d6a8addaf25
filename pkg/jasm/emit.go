package jasm

import (
	"fmt"
	"strings"
)

// Emit serializes a compiled class into Jasmin assembly text. It is a pure
// formatting step: no decision about program semantics is made here. The
// only failures are malformed inputs from the code generator (duplicate or
// missing labels, unknown opcodes), reported as errors since they indicate
// a compiler bug rather than a user error.
func Emit(c *Class) (string, error) {
	if c.Main == nil {
		return "", fmt.Errorf("jasm: class %q has no main method", c.Name)
	}
	if err := checkLabels(c.Main); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ".class public %s\n", c.Name)
	fmt.Fprintf(&sb, ".super %s\n", c.Super)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, ".method public <init>()V\n")
	sb.WriteString("  aload_0\n")
	fmt.Fprintf(&sb, "  invokespecial %s/<init>()V\n", c.Super)
	sb.WriteString("  return\n")
	sb.WriteString(".end method\n")
	sb.WriteString("\n")

	m := c.Main
	fmt.Fprintf(&sb, ".method public static %s%s\n", m.Name, m.Descriptor)
	fmt.Fprintf(&sb, "  .limit stack %d\n", stackLimit(m))
	fmt.Fprintf(&sb, "  .limit locals %d\n", m.MaxLocals)

	for _, in := range m.Code {
		if err := emitInstruction(&sb, in); err != nil {
			return "", err
		}
	}

	sb.WriteString("  return\n")
	sb.WriteString(".end method\n")
	return sb.String(), nil
}

// stackLimit returns the .limit stack value for the method header. The
// print pseudo-op expands to a sequence that keeps the PrintStream receiver
// on the stack above the value being printed, so a method containing a
// print needs one slot of headroom beyond the tracked peak.
func stackLimit(m *Method) int {
	limit := m.MaxStack
	for _, in := range m.Code {
		if in.Op == Print {
			return limit + 1
		}
	}
	return limit
}

// checkLabels verifies that label names are unique within the method and
// that every branch target is defined.
func checkLabels(m *Method) error {
	defined := make(map[string]bool)
	for _, in := range m.Code {
		if in.Op != Label {
			continue
		}
		if defined[in.Target] {
			return fmt.Errorf("jasm: duplicate label %q in method %s", in.Target, m.Name)
		}
		defined[in.Target] = true
	}
	for _, in := range m.Code {
		if in.Op.HasTarget() && in.Op != Label && !defined[in.Target] {
			return fmt.Errorf("jasm: undefined branch target %q in method %s", in.Target, m.Name)
		}
	}
	return nil
}

func emitInstruction(sb *strings.Builder, in Instruction) error {
	switch in.Op {
	case Iconst:
		fmt.Fprintf(sb, "  %s\n", constText(in.A))
	case Iload:
		fmt.Fprintf(sb, "  %s\n", slotText("iload", in.A))
	case Istore:
		fmt.Fprintf(sb, "  %s\n", slotText("istore", in.A))
	case Iadd, Isub, Imul, Idiv, Ineg, Return:
		fmt.Fprintf(sb, "  %s\n", in.Op)
	case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmple, IfIcmpgt, IfIcmpge, Ifeq, Goto:
		fmt.Fprintf(sb, "  %s %s\n", in.Op, in.Target)
	case Label:
		fmt.Fprintf(sb, "%s:\n", in.Target)
	case Print:
		// The value to print is already on the stack; fetch the stream
		// and swap it underneath before the virtual call.
		sb.WriteString("  getstatic java/lang/System/out Ljava/io/PrintStream;\n")
		sb.WriteString("  swap\n")
		sb.WriteString("  invokevirtual java/io/PrintStream/println(I)V\n")
	default:
		return fmt.Errorf("jasm: cannot emit unknown opcode %d", int(in.Op))
	}
	return nil
}

// constText picks the narrowest JVM encoding for an int constant.
func constText(v int) string {
	switch {
	case v == -1:
		return "iconst_m1"
	case v >= 0 && v <= 5:
		return fmt.Sprintf("iconst_%d", v)
	case v >= -128 && v <= 127:
		return fmt.Sprintf("bipush %d", v)
	case v >= -32768 && v <= 32767:
		return fmt.Sprintf("sipush %d", v)
	default:
		return fmt.Sprintf("ldc %d", v)
	}
}

// slotText uses the short iload_N/istore_N forms for slots 0 through 3.
func slotText(mnemonic string, slot int) string {
	if slot >= 0 && slot <= 3 {
		return fmt.Sprintf("%s_%d", mnemonic, slot)
	}
	return fmt.Sprintf("%s %d", mnemonic, slot)
}
