// Package oracle encodes Boolean functions f: {0,1}^n → {0,1} as gate
// sequences that write f(x) into the ancilla qubit n.
package oracle

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/hershlalwani/djsim/quantum"
)

var (
	// ErrUnsupportedOracle is returned by Build and ParseKind for an unknown
	// oracle kind.
	ErrUnsupportedOracle = errors.New("unsupported oracle")

	// ErrInvalidOracleGate is returned by Custom for a gate that does not
	// act on the ancilla conditioned on inputs.
	ErrInvalidOracleGate = errors.New("invalid oracle gate")
)

// Kind names a built-in oracle.
type Kind string

const (
	ConstantZero Kind = "constant-zero"
	BalancedXOR  Kind = "balanced-xor"

	// Custom marks an oracle assembled with the Custom constructor.
	CustomKind Kind = "custom"
)

// Kinds lists the oracles Build knows, in display order.
var Kinds = []Kind{ConstantZero, BalancedXOR}

// ParseKind maps a name to a built-in Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOracle, name)
}

// Property is what the Deutsch–Jozsa promise says about f.
type Property int

const (
	Neither Property = iota
	Constant
	Balanced
)

func (p Property) String() string {
	switch p {
	case Constant:
		return "constant"
	case Balanced:
		return "balanced"
	default:
		return "neither"
	}
}

// Oracle is the gate sequence of one function on NumInputs inputs. The
// ancilla is qubit NumInputs.
type Oracle struct {
	Kind      Kind
	NumInputs int
	Gates     []quantum.Gate
}

// Ancilla returns the index of the qubit f(x) is written to.
func (o Oracle) Ancilla() int { return o.NumInputs }

// Build returns the gate sequence for a built-in kind.
func Build(kind Kind, n int) (Oracle, error) {
	if n < 1 {
		return Oracle{}, fmt.Errorf("%w: oracle needs at least one input, got %d", quantum.ErrInvalidQubitIndex, n)
	}

	switch kind {
	case ConstantZero:
		return Oracle{Kind: kind, NumInputs: n}, nil
	case BalancedXOR:
		gates := make([]quantum.Gate, 0, n)
		for i := 0; i < n; i++ {
			gates = append(gates, quantum.CX(i, n))
		}
		return Oracle{Kind: kind, NumInputs: n, Gates: gates}, nil
	default:
		return Oracle{}, fmt.Errorf("%w: %q", ErrUnsupportedOracle, kind)
	}
}

// Custom assembles an oracle from CX(input, n) and X(n) gates. Any other
// gate could disturb the input register and is rejected.
func Custom(n int, gates ...quantum.Gate) (Oracle, error) {
	if n < 1 {
		return Oracle{}, fmt.Errorf("%w: oracle needs at least one input, got %d", quantum.ErrInvalidQubitIndex, n)
	}
	for i, g := range gates {
		switch {
		case g.Kind == quantum.PauliX && g.Target == n:
		case g.Kind == quantum.ControlledNot && g.Target == n && g.Control >= 0 && g.Control < n:
		default:
			return Oracle{}, fmt.Errorf("%w: gate %d %s on %d inputs", ErrInvalidOracleGate, i, g, n)
		}
	}
	out := make([]quantum.Gate, len(gates))
	copy(out, gates)
	return Oracle{Kind: CustomKind, NumInputs: n, Gates: out}, nil
}

// Evaluate computes f(x) classically. Bit i of x is input qubit i.
func (o Oracle) Evaluate(x uint64) int {
	v := 0
	for _, g := range o.Gates {
		switch g.Kind {
		case quantum.PauliX:
			v ^= 1
		case quantum.ControlledNot:
			v ^= int(x>>uint(g.Control)) & 1
		}
	}
	return v
}

// Classify checks every input and reports whether f is constant, balanced
// or neither. It costs 2^n evaluations and is meant for small n.
func (o Oracle) Classify() Property {
	total := uint64(1) << uint(o.NumInputs)
	ones := uint64(0)
	for x := uint64(0); x < total; x++ {
		ones += uint64(o.Evaluate(x))
	}
	switch {
	case ones == 0 || ones == total:
		return Constant
	case ones == total/2:
		return Balanced
	default:
		return Neither
	}
}

// controlMask is the set of inputs f depends on, with duplicate controls
// cancelling out.
func (o Oracle) controlMask() uint64 {
	var mask uint64
	for _, g := range o.Gates {
		if g.Kind == quantum.ControlledNot {
			mask ^= 1 << uint(g.Control)
		}
	}
	return mask
}

// Dependencies returns how many inputs f actually depends on.
func (o Oracle) Dependencies() int {
	return bits.OnesCount64(o.controlMask())
}
