package quantum

import (
	"fmt"
	"math"
)

// Apply transforms s in place by g. The register is left untouched when the
// gate is rejected.
func Apply(s *StateVector, g Gate) error {
	if err := validate(s, g); err != nil {
		return err
	}

	switch g.Kind {
	case PauliX:
		s.applyX(g.Target)
	case Hadamard:
		s.applyH(g.Target)
	case ControlledNot:
		s.applyCX(g.Control, g.Target)
	}
	return nil
}

// ApplyAll applies gates in order, stopping at the first rejected gate.
func ApplyAll(s *StateVector, gates ...Gate) error {
	for i, g := range gates {
		if err := Apply(s, g); err != nil {
			return fmt.Errorf("gate %d %s: %w", i, g, err)
		}
	}
	return nil
}

func validate(s *StateVector, g Gate) error {
	switch g.Kind {
	case PauliX, Hadamard:
	case ControlledNot:
		if !s.validQubit(g.Control) {
			return fmt.Errorf("%w: control %d outside [0, %d]", ErrInvalidQubitIndex, g.Control, s.numQubits-1)
		}
		if g.Control == g.Target {
			return fmt.Errorf("%w: control and target are both %d", ErrInvalidQubitIndex, g.Target)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGate, g.Kind)
	}
	if !s.validQubit(g.Target) {
		return fmt.Errorf("%w: target %d outside [0, %d]", ErrInvalidQubitIndex, g.Target, s.numQubits-1)
	}
	return nil
}

// applyH mixes each pair (i, i|bit) in place; each pair is visited once from
// its lower index.
func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.amplitudes[i], s.amplitudes[j]
			s.amplitudes[i] = hFactor * (a0 + a1)
			s.amplitudes[j] = hFactor * (a0 - a1)
		}
	}
}

func (s *StateVector) applyX(q int) {
	n := len(s.amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.amplitudes[i], s.amplitudes[j] = s.amplitudes[j], s.amplitudes[i]
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amplitudes[i], s.amplitudes[j] = s.amplitudes[j], s.amplitudes[i]
		}
	}
}
