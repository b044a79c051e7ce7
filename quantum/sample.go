package quantum

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// negligibleProbability is the floor below which an outcome is treated as
// impossible. Interference that should cancel exactly can leave residue of
// order 1e-17.
const negligibleProbability = 1e-12

// Counts maps an outcome string over the measured qubits to how many shots
// produced it. The rightmost character is the first measured qubit.
type Counts map[string]int

// Total returns the number of shots tallied.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// NewSource returns a seeded PCG source for reproducible sampling.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Marginal returns the probability of every outcome over the measured
// qubits, summed over all other qubits. Outcome k has bit j set when
// measured[j] is 1.
func Marginal(s *StateVector, measured []int) ([]float64, error) {
	if len(measured) == 0 {
		return nil, fmt.Errorf("%w: no qubits to measure", ErrInvalidQubitIndex)
	}
	seen := make(map[int]bool, len(measured))
	for _, q := range measured {
		if !s.validQubit(q) {
			return nil, fmt.Errorf("%w: measured qubit %d outside [0, %d]", ErrInvalidQubitIndex, q, s.numQubits-1)
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: qubit %d measured twice", ErrInvalidQubitIndex, q)
		}
		seen[q] = true
	}

	probs := make([]float64, 1<<len(measured))
	for i, amp := range s.amplitudes {
		outcome := 0
		for j, q := range measured {
			if i&(1<<q) != 0 {
				outcome |= 1 << j
			}
		}
		probs[outcome] += probability(amp)
	}
	return probs, nil
}

// Sample draws shots independent measurements of the measured qubits.
// A nil src uses the global unseeded source.
func Sample(s *StateVector, measured []int, shots int, src rand.Source) (Counts, error) {
	if shots < 1 {
		return nil, fmt.Errorf("sample: shots must be positive, got %d", shots)
	}
	probs, err := Marginal(s, measured)
	if err != nil {
		return nil, err
	}

	total := floats.Sum(probs)
	if math.Abs(total-1) > NormTolerance {
		return nil, fmt.Errorf("%w: marginal sums to %.12f", ErrNormalization, total)
	}
	floats.Scale(1/total, probs)
	for i, p := range probs {
		if p < negligibleProbability {
			probs[i] = 0
		}
	}

	dist := distuv.NewCategorical(probs, src)
	counts := make(Counts)
	for shot := 0; shot < shots; shot++ {
		idx := int(dist.Rand())
		// A uniform draw of exactly 0 lands on index 0 whatever its weight.
		for probs[idx] == 0 {
			idx = int(dist.Rand())
		}
		counts[FormatOutcome(idx, len(measured))]++
	}
	return counts, nil
}

// FormatOutcome renders outcome idx as a width-bit string, most significant
// measured qubit first.
func FormatOutcome(idx, width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for j := width - 1; j >= 0; j-- {
		if idx&(1<<j) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
