package dj

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hershlalwani/djsim/oracle"
	"github.com/hershlalwani/djsim/quantum"
)

// DefaultMaxQubits bounds the register (inputs + ancilla) unless overridden.
const DefaultMaxQubits = 16

// ErrInvalidShots is returned for a non-positive shot count.
var ErrInvalidShots = errors.New("invalid shot count")

// RunConfig is the input of one run.
type RunConfig struct {
	NumInputs int
	Oracle    oracle.Kind
	Shots     int
	Seed      *uint64 // nil samples from a fresh unseeded source
}

// Result is the output of one run.
type Result struct {
	ID        string
	NumInputs int
	Oracle    oracle.Kind
	Shots     int
	Seed      *uint64
	Circuit   Circuit
	Counts    quantum.Counts
	Verdict   oracle.Property
	Elapsed   time.Duration
}

// StepHook observes the register after each step. It must not modify it.
type StepHook func(i int, st Step, state *quantum.StateVector)

// Runner executes Deutsch–Jozsa circuits. A Runner holds no per-run state
// and may be shared by concurrent callers.
type Runner struct {
	maxQubits int
	logger    zerolog.Logger
	hook      StepHook
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxQubits sets the register ceiling, capped at quantum.MaxQubits.
func WithMaxQubits(n int) Option {
	return func(r *Runner) {
		r.maxQubits = min(n, quantum.MaxQubits)
	}
}

// WithLogger sets the logger used for run events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithStepHook installs an observer called after every gate.
func WithStepHook(h StepHook) Option {
	return func(r *Runner) {
		r.hook = h
	}
}

// NewRunner returns a Runner with DefaultMaxQubits and a no-op logger.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		maxQubits: DefaultMaxQubits,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxQubits returns the register ceiling.
func (r *Runner) MaxQubits() int { return r.maxQubits }

// Run builds the oracle, evolves a fresh register through the program and
// samples the input qubits. Any failure aborts the run without a result.
func (r *Runner) Run(cfg RunConfig) (*Result, error) {
	if err := r.check(cfg.NumInputs, cfg.Shots); err != nil {
		return nil, err
	}

	// Oracle first, so an unsupported kind never allocates a register.
	o, err := oracle.Build(cfg.Oracle, cfg.NumInputs)
	if err != nil {
		return nil, err
	}
	return r.RunOracle(o, cfg.Shots, cfg.Seed)
}

// RunOracle runs the protocol against an already built oracle, including
// ones made with oracle.Custom.
func (r *Runner) RunOracle(o oracle.Oracle, shots int, seed *uint64) (*Result, error) {
	if err := r.check(o.NumInputs, shots); err != nil {
		return nil, err
	}

	start := time.Now()
	id := uuid.NewString()
	log := r.logger.With().
		Str("run_id", id).
		Int("qubits", o.NumInputs).
		Str("oracle", string(o.Kind)).
		Int("shots", shots).
		Logger()
	log.Debug().Msg("Starting Deutsch-Jozsa run")

	circuit := Program(o)
	state, err := quantum.NewStateVector(circuit.NumQubits)
	if err != nil {
		return nil, err
	}

	for i, st := range circuit.Steps {
		if err := quantum.Apply(state, st.Gate); err != nil {
			log.Error().Err(err).Int("step", i).Msg("Gate application failed")
			return nil, fmt.Errorf("step %d (%s) %s: %w", i, st.Stage, st.Gate, err)
		}
		if r.hook != nil {
			r.hook(i, st, state)
		}
	}

	var src rand.Source
	if seed != nil {
		src = quantum.NewSource(*seed)
	}
	counts, err := quantum.Sample(state, circuit.Measured, shots, src)
	if err != nil {
		log.Error().Err(err).Msg("Sampling failed")
		return nil, fmt.Errorf("sample: %w", err)
	}

	res := &Result{
		ID:        id,
		NumInputs: o.NumInputs,
		Oracle:    o.Kind,
		Shots:     shots,
		Seed:      seed,
		Circuit:   circuit,
		Counts:    counts,
		Verdict:   Decide(counts, o.NumInputs),
		Elapsed:   time.Since(start),
	}

	log.Info().
		Str("verdict", res.Verdict.String()).
		Int("outcomes", len(counts)).
		Dur("elapsed", res.Elapsed).
		Msg("Deutsch-Jozsa run complete")
	return res, nil
}

func (r *Runner) check(numInputs, shots int) error {
	if numInputs < 1 {
		return fmt.Errorf("%w: need at least one input qubit, got %d", quantum.ErrInvalidQubitIndex, numInputs)
	}
	if numInputs+1 > r.maxQubits {
		return fmt.Errorf("%w: %d inputs need %d qubits, limit is %d",
			quantum.ErrResourceLimitExceeded, numInputs, numInputs+1, r.maxQubits)
	}
	if shots < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidShots, shots)
	}
	return nil
}

// Decide reads the verdict off the counts: f is constant exactly when every
// shot measured the all-zero string.
func Decide(counts quantum.Counts, numInputs int) oracle.Property {
	zeros := strings.Repeat("0", numInputs)
	total := counts.Total()
	if total > 0 && counts[zeros] == total {
		return oracle.Constant
	}
	return oracle.Balanced
}
