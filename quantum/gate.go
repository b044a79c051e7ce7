package quantum

import "fmt"

// GateKind tags the variant of a Gate.
type GateKind int

const (
	PauliX GateKind = iota
	Hadamard
	ControlledNot
)

func (k GateKind) String() string {
	switch k {
	case PauliX:
		return "X"
	case Hadamard:
		return "H"
	case ControlledNot:
		return "CX"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// Gate is a pure description of a unitary operation. It has no effect until
// passed to Apply.
type Gate struct {
	Kind    GateKind
	Target  int
	Control int // -1 if not a controlled gate
}

// X returns a Pauli-X (bit flip) on q.
func X(q int) Gate {
	return Gate{Kind: PauliX, Target: q, Control: -1}
}

// H returns a Hadamard on q.
func H(q int) Gate {
	return Gate{Kind: Hadamard, Target: q, Control: -1}
}

// CX returns a controlled-NOT flipping target when control is set.
func CX(control, target int) Gate {
	return Gate{Kind: ControlledNot, Target: target, Control: control}
}

// HadamardRange returns H(lo), H(lo+1), ..., H(hi-1).
func HadamardRange(lo, hi int) []Gate {
	if hi <= lo {
		return nil
	}
	gates := make([]Gate, 0, hi-lo)
	for q := lo; q < hi; q++ {
		gates = append(gates, H(q))
	}
	return gates
}

// Qubits lists the qubits the gate reads or writes, control first.
func (g Gate) Qubits() []int {
	if g.Kind == ControlledNot {
		return []int{g.Control, g.Target}
	}
	return []int{g.Target}
}

// References reports whether the gate touches the given qubit.
func (g Gate) References(qubit int) bool {
	return g.Target == qubit || (g.Kind == ControlledNot && g.Control == qubit)
}

func (g Gate) String() string {
	if g.Kind == ControlledNot {
		return fmt.Sprintf("CX(%d,%d)", g.Control, g.Target)
	}
	return fmt.Sprintf("%s(%d)", g.Kind, g.Target)
}
