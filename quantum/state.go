// Package quantum holds the state-vector simulator: the amplitude register,
// the gate set, the gate kernels and Born-rule sampling.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// MaxQubits is the hard ceiling on register size. 2^24 amplitudes of
// complex128 is 256 MiB.
const MaxQubits = 24

// NormTolerance is the allowed deviation of the total probability from 1.
const NormTolerance = 1e-9

type Complex = complex128

// StateVector is the joint state of a register. Bit i of a basis index is
// qubit i.
type StateVector struct {
	amplitudes []Complex
	numQubits  int
}

// NewStateVector returns the all-zero basis state |0...0⟩ on numQubits qubits.
func NewStateVector(numQubits int) (*StateVector, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("%w: register needs at least one qubit, got %d", ErrInvalidQubitIndex, numQubits)
	}
	if numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d qubits requested, ceiling is %d", ErrResourceLimitExceeded, numQubits, MaxQubits)
	}
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{amplitudes: amps, numQubits: numQubits}, nil
}

// Clone returns an independent copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.amplitudes))
	copy(amps, s.amplitudes)
	return &StateVector{amplitudes: amps, numQubits: s.numQubits}
}

// NumQubits returns the register size.
func (s *StateVector) NumQubits() int { return s.numQubits }

// Dimension returns the number of basis states, 2^NumQubits.
func (s *StateVector) Dimension() int { return len(s.amplitudes) }

// AmplitudeAt returns the amplitude of the given basis state. Indices outside
// the register read as zero.
func (s *StateVector) AmplitudeAt(basis int) Complex {
	if basis < 0 || basis >= len(s.amplitudes) {
		return 0
	}
	return s.amplitudes[basis]
}

// Amplitudes returns a copy of the amplitude vector.
func (s *StateVector) Amplitudes() []Complex {
	out := make([]Complex, len(s.amplitudes))
	copy(out, s.amplitudes)
	return out
}

// Probabilities returns |a|² for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amplitudes))
	for i, amp := range s.amplitudes {
		probs[i] = probability(amp)
	}
	return probs
}

// Norm returns the total probability mass, which stays 1 under unitary gates.
func (s *StateVector) Norm() float64 {
	return floats.Sum(s.Probabilities())
}

// CheckNormalized reports ErrNormalization when the norm is off by more
// than tol.
func (s *StateVector) CheckNormalized(tol float64) error {
	if norm := s.Norm(); math.Abs(norm-1) > tol {
		return fmt.Errorf("%w: total probability %.12f", ErrNormalization, norm)
	}
	return nil
}

// validQubit reports whether q addresses a qubit of this register.
func (s *StateVector) validQubit(q int) bool {
	return q >= 0 && q < s.numQubits
}

// QubitProbability is the single-qubit marginal of a register.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.numQubits)

	for i, amp := range s.amplitudes {
		prob := probability(amp)
		for q := 0; q < s.numQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

func probability(amp Complex) float64 {
	return real(amp * cmplx.Conj(amp))
}
