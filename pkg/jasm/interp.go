package jasm

import "fmt"

// Interp executes a Method's instruction list abstractly: an int operand
// stack, a flat slot file, and named labels resolved to instruction
// indices before execution starts. It exists so that compiled output can
// be checked without a JVM — peak stack depth, final slot contents, print
// output and label visit counts are all observable.
type Interp struct {
	maxSteps int
}

// Trace is the observable result of one abstract execution.
type Trace struct {
	Output      []int          // values printed, in order
	Locals      []int          // final slot file contents
	PeakStack   int            // highest operand-stack depth reached
	Steps       int            // instructions executed
	LabelVisits map[string]int // how many times control passed each label
}

// NewInterp returns an interpreter that aborts after maxSteps instructions
// (a runaway-loop guard). maxSteps <= 0 selects a default budget.
func NewInterp(maxSteps int) *Interp {
	if maxSteps <= 0 {
		maxSteps = 1_000_000
	}
	return &Interp{maxSteps: maxSteps}
}

// Exec runs m to its return and reports what happened. Errors indicate
// malformed code (bad targets, stack underflow, out-of-range slots), never
// a property of a valid user program except division by zero.
func Exec(m *Method) (*Trace, error) {
	return NewInterp(0).Exec(m)
}

func (ip *Interp) Exec(m *Method) (*Trace, error) {
	labels := make(map[string]int)
	for i, in := range m.Code {
		if in.Op == Label {
			if _, dup := labels[in.Target]; dup {
				return nil, fmt.Errorf("jasm: duplicate label %q", in.Target)
			}
			labels[in.Target] = i
		}
	}

	nLocals := m.MaxLocals
	if nLocals < 1 {
		nLocals = 1
	}
	tr := &Trace{
		Locals:      make([]int, nLocals),
		LabelVisits: make(map[string]int),
	}
	var stack []int

	push := func(v int) {
		stack = append(stack, v)
		if len(stack) > tr.PeakStack {
			tr.PeakStack = len(stack)
		}
	}
	pop := func() (int, error) {
		if len(stack) == 0 {
			return 0, fmt.Errorf("jasm: operand stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	branch := func(target string) (int, error) {
		idx, ok := labels[target]
		if !ok {
			return 0, fmt.Errorf("jasm: undefined branch target %q", target)
		}
		return idx, nil
	}

	pc := 0
	for pc < len(m.Code) {
		if tr.Steps >= ip.maxSteps {
			return tr, fmt.Errorf("jasm: execution exceeded %d steps", ip.maxSteps)
		}
		tr.Steps++

		in := m.Code[pc]
		switch in.Op {
		case Iconst:
			push(in.A)
		case Iload:
			if in.A < 0 || in.A >= len(tr.Locals) {
				return tr, fmt.Errorf("jasm: iload slot %d outside declared locals %d", in.A, len(tr.Locals))
			}
			push(tr.Locals[in.A])
		case Istore:
			if in.A < 0 || in.A >= len(tr.Locals) {
				return tr, fmt.Errorf("jasm: istore slot %d outside declared locals %d", in.A, len(tr.Locals))
			}
			v, err := pop()
			if err != nil {
				return tr, err
			}
			tr.Locals[in.A] = v
		case Iadd, Isub, Imul, Idiv:
			b, err := pop()
			if err != nil {
				return tr, err
			}
			a, err := pop()
			if err != nil {
				return tr, err
			}
			var v int
			switch in.Op {
			case Iadd:
				v = a + b
			case Isub:
				v = a - b
			case Imul:
				v = a * b
			case Idiv:
				if b == 0 {
					return tr, fmt.Errorf("jasm: division by zero")
				}
				v = a / b
			}
			push(v)
		case Ineg:
			v, err := pop()
			if err != nil {
				return tr, err
			}
			push(-v)
		case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmple, IfIcmpgt, IfIcmpge:
			b, err := pop()
			if err != nil {
				return tr, err
			}
			a, err := pop()
			if err != nil {
				return tr, err
			}
			var taken bool
			switch in.Op {
			case IfIcmpeq:
				taken = a == b
			case IfIcmpne:
				taken = a != b
			case IfIcmplt:
				taken = a < b
			case IfIcmple:
				taken = a <= b
			case IfIcmpgt:
				taken = a > b
			case IfIcmpge:
				taken = a >= b
			}
			if taken {
				idx, err := branch(in.Target)
				if err != nil {
					return tr, err
				}
				pc = idx
				continue
			}
		case Ifeq:
			v, err := pop()
			if err != nil {
				return tr, err
			}
			if v == 0 {
				idx, err := branch(in.Target)
				if err != nil {
					return tr, err
				}
				pc = idx
				continue
			}
		case Goto:
			idx, err := branch(in.Target)
			if err != nil {
				return tr, err
			}
			pc = idx
			continue
		case Label:
			tr.LabelVisits[in.Target]++
		case Print:
			v, err := pop()
			if err != nil {
				return tr, err
			}
			tr.Output = append(tr.Output, v)
		case Return:
			return tr, ip.checkExit(stack, tr)
		default:
			return tr, fmt.Errorf("jasm: cannot execute unknown opcode %d", int(in.Op))
		}
		pc++
	}
	// Falling off the end of the code list behaves like an implicit return;
	// the emitter always appends one.
	return tr, ip.checkExit(stack, tr)
}

func (ip *Interp) checkExit(stack []int, tr *Trace) error {
	if len(stack) != 0 {
		return fmt.Errorf("jasm: %d values left on the operand stack at return", len(stack))
	}
	return nil
}
