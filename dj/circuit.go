// Package dj runs the Deutsch–Jozsa protocol on the state-vector simulator.
package dj

import (
	"fmt"

	"github.com/hershlalwani/djsim/oracle"
	"github.com/hershlalwani/djsim/quantum"
)

// Stage labels the part of the protocol a gate belongs to.
type Stage string

const (
	StageInit      Stage = "init"      // ancilla to |1⟩
	StageSuperpose Stage = "superpose" // H on every qubit
	StageOracle    Stage = "oracle"
	StageInterfere Stage = "interfere" // H on the inputs
)

// Step is one gate of the program.
type Step struct {
	Stage Stage
	Gate  quantum.Gate
}

// Circuit is the full Deutsch–Jozsa program for one oracle.
type Circuit struct {
	Oracle    oracle.Oracle
	NumQubits int // inputs + ancilla
	Steps     []Step
	Measured  []int
}

// Program composes X(n), H on [0, n], the oracle, then H on [0, n-1], and
// measures the inputs.
func Program(o oracle.Oracle) Circuit {
	n := o.NumInputs
	c := Circuit{
		Oracle:    o,
		NumQubits: n + 1,
		Steps:     make([]Step, 0, 1+(n+1)+len(o.Gates)+n),
		Measured:  make([]int, n),
	}

	c.add(StageInit, quantum.X(n))
	c.add(StageSuperpose, quantum.HadamardRange(0, n+1)...)
	c.add(StageOracle, o.Gates...)
	c.add(StageInterfere, quantum.HadamardRange(0, n)...)

	for i := range c.Measured {
		c.Measured[i] = i
	}
	return c
}

func (c *Circuit) add(stage Stage, gates ...quantum.Gate) {
	for _, g := range gates {
		c.Steps = append(c.Steps, Step{Stage: stage, Gate: g})
	}
}

// Gates returns the gate sequence without stage labels.
func (c Circuit) Gates() []quantum.Gate {
	gates := make([]quantum.Gate, len(c.Steps))
	for i, st := range c.Steps {
		gates[i] = st.Gate
	}
	return gates
}

// StageBounds returns the half-open step range [start, end) of a stage.
// An empty stage yields start == end at the position it would occupy.
func (c Circuit) StageBounds(stage Stage) (start, end int) {
	start = -1
	for i, st := range c.Steps {
		if st.Stage == stage {
			if start < 0 {
				start = i
			}
			end = i + 1
		}
	}
	if start >= 0 {
		return start, end
	}
	// Empty oracle sits between superposition and interference.
	order := []Stage{StageInit, StageSuperpose, StageOracle, StageInterfere}
	pos := 0
	for _, s := range order {
		if s == stage {
			return pos, pos
		}
		for _, st := range c.Steps {
			if st.Stage == s {
				pos++
			}
		}
	}
	return pos, pos
}

// Evolve returns the state after the first upTo steps. A negative upTo runs
// the whole program.
func Evolve(c Circuit, upTo int) (*quantum.StateVector, error) {
	state, err := quantum.NewStateVector(c.NumQubits)
	if err != nil {
		return nil, err
	}
	if upTo < 0 || upTo > len(c.Steps) {
		upTo = len(c.Steps)
	}
	for i, st := range c.Steps[:upTo] {
		if err := quantum.Apply(state, st.Gate); err != nil {
			return nil, fmt.Errorf("step %d (%s) %s: %w", i, st.Stage, st.Gate, err)
		}
	}
	return state, nil
}
