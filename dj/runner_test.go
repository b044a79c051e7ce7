package dj

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hershlalwani/djsim/oracle"
	"github.com/hershlalwani/djsim/quantum"
)

func seed(v uint64) *uint64 { return &v }

func TestRun_ConstantZero(t *testing.T) {
	r := NewRunner()
	for _, n := range []int{1, 2, 3, 4, 8} {
		for _, shots := range []int{1, 17, 1024} {
			res, err := r.Run(RunConfig{NumInputs: n, Oracle: oracle.ConstantZero, Shots: shots, Seed: seed(11)})
			require.NoError(t, err)

			zeros := strings.Repeat("0", n)
			assert.Equal(t, quantum.Counts{zeros: shots}, res.Counts, "n=%d shots=%d", n, shots)
			assert.Equal(t, oracle.Constant, res.Verdict)
		}
	}
}

func TestRun_BalancedXORNeverAllZero(t *testing.T) {
	r := NewRunner()
	for _, n := range []int{1, 2, 3, 4, 8} {
		res, err := r.Run(RunConfig{NumInputs: n, Oracle: oracle.BalancedXOR, Shots: 512})
		require.NoError(t, err)

		assert.Zero(t, res.Counts[strings.Repeat("0", n)], "n=%d", n)
		assert.Equal(t, 512, res.Counts.Total())
		assert.Equal(t, oracle.Balanced, res.Verdict)
	}
}

func TestRun_ZeroOutcomeHasNoProbability(t *testing.T) {
	o, err := oracle.Build(oracle.BalancedXOR, 4)
	require.NoError(t, err)
	c := Program(o)

	state, err := Evolve(c, -1)
	require.NoError(t, err)
	probs, err := quantum.Marginal(state, c.Measured)
	require.NoError(t, err)

	assert.Equal(t, 0.0, probs[0])
}

func TestRun_ScenarioA(t *testing.T) {
	res, err := NewRunner().Run(RunConfig{NumInputs: 4, Oracle: oracle.ConstantZero, Shots: 1024, Seed: seed(2024)})
	require.NoError(t, err)

	assert.Equal(t, quantum.Counts{"0000": 1024}, res.Counts)
}

func TestRun_ScenarioB(t *testing.T) {
	res, err := NewRunner().Run(RunConfig{NumInputs: 2, Oracle: oracle.BalancedXOR, Shots: 1024, Seed: seed(2024)})
	require.NoError(t, err)

	assert.Zero(t, res.Counts["00"])
	assert.Equal(t, 1024, res.Counts.Total())
	for outcome := range res.Counts {
		assert.Contains(t, []string{"01", "10", "11"}, outcome)
	}
	// f = x0 ⊕ x1 interferes entirely onto |11⟩
	assert.Equal(t, 1024, res.Counts["11"])
}

func TestRun_SeedReproducible(t *testing.T) {
	o, err := oracle.Custom(3, quantum.CX(0, 3), quantum.CX(2, 3))
	require.NoError(t, err)

	r := NewRunner()
	a, err := r.RunOracle(o, 256, seed(5))
	require.NoError(t, err)
	b, err := r.RunOracle(o, 256, seed(5))
	require.NoError(t, err)

	assert.Equal(t, a.Counts, b.Counts)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRun_NormPreservedEveryStep(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		for _, kind := range oracle.Kinds {
			steps := 0
			hook := func(i int, st Step, state *quantum.StateVector) {
				steps++
				assert.NoError(t, state.CheckNormalized(quantum.NormTolerance), "n=%d %s step %d %s", n, kind, i, st.Gate)
			}

			res, err := NewRunner(WithStepHook(hook)).Run(RunConfig{NumInputs: n, Oracle: kind, Shots: 8})
			require.NoError(t, err)
			assert.Equal(t, len(res.Circuit.Steps), steps)
		}
	}
}

func TestRun_CustomOracles(t *testing.T) {
	tests := []struct {
		name  string
		gates []quantum.Gate
		want  string
	}{
		{"constant one", []quantum.Gate{quantum.X(3)}, "000"},
		{"parity of x1", []quantum.Gate{quantum.CX(1, 3)}, "010"},
		{"negated parity of x0 x2", []quantum.Gate{quantum.CX(0, 3), quantum.CX(2, 3), quantum.X(3)}, "101"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, err := oracle.Custom(3, tc.gates...)
			require.NoError(t, err)

			res, err := NewRunner().RunOracle(o, 100, seed(1))
			require.NoError(t, err)
			assert.Equal(t, quantum.Counts{tc.want: 100}, res.Counts)
			assert.Equal(t, o.Classify(), res.Verdict)
		})
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr error
	}{
		{"no input qubits", RunConfig{NumInputs: 0, Oracle: oracle.ConstantZero, Shots: 1}, quantum.ErrInvalidQubitIndex},
		{"unknown oracle", RunConfig{NumInputs: 2, Oracle: "unknown", Shots: 1}, oracle.ErrUnsupportedOracle},
		{"zero shots", RunConfig{NumInputs: 2, Oracle: oracle.ConstantZero, Shots: 0}, ErrInvalidShots},
		{"too many qubits", RunConfig{NumInputs: DefaultMaxQubits, Oracle: oracle.ConstantZero, Shots: 1}, quantum.ErrResourceLimitExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			r := NewRunner(WithStepHook(func(int, Step, *quantum.StateVector) { called = true }))

			res, err := r.Run(tc.cfg)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, res)
			assert.False(t, called, "no gate may run before validation fails")
		})
	}
}

func TestWithMaxQubits(t *testing.T) {
	r := NewRunner(WithMaxQubits(3))
	assert.Equal(t, 3, r.MaxQubits())

	_, err := r.Run(RunConfig{NumInputs: 3, Oracle: oracle.ConstantZero, Shots: 1})
	assert.ErrorIs(t, err, quantum.ErrResourceLimitExceeded)

	assert.Equal(t, quantum.MaxQubits, NewRunner(WithMaxQubits(1000)).MaxQubits())
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(WithLogger(zerolog.New(&buf)))

	res, err := r.Run(RunConfig{NumInputs: 2, Oracle: oracle.BalancedXOR, Shots: 4, Seed: seed(1)})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, res.ID)
	assert.Contains(t, out, `"verdict":"balanced"`)
	assert.Contains(t, out, `"oracle":"balanced-xor"`)
}

func TestDecide(t *testing.T) {
	assert.Equal(t, oracle.Constant, Decide(quantum.Counts{"000": 5}, 3))
	assert.Equal(t, oracle.Balanced, Decide(quantum.Counts{"000": 4, "001": 1}, 3))
	assert.Equal(t, oracle.Balanced, Decide(quantum.Counts{}, 3))
}

func TestSweep(t *testing.T) {
	configs := Grid([]int{1, 2, 4}, oracle.Kinds, 128, seed(9))
	require.Len(t, configs, 6)

	r := NewRunner()
	first, err := Sweep(context.Background(), r, configs, 3)
	require.NoError(t, err)
	second, err := Sweep(context.Background(), r, configs, 0)
	require.NoError(t, err)

	require.Len(t, first, len(configs))
	for i, res := range first {
		assert.Equal(t, configs[i].NumInputs, res.NumInputs)
		assert.Equal(t, configs[i].Oracle, res.Oracle)
		assert.Equal(t, second[i].Counts, res.Counts)
		want := oracle.Constant
		if res.Oracle == oracle.BalancedXOR {
			want = oracle.Balanced
		}
		assert.Equal(t, want, res.Verdict)
	}
}

func TestSweep_FailsWhole(t *testing.T) {
	configs := []RunConfig{
		{NumInputs: 1, Oracle: oracle.ConstantZero, Shots: 1},
		{NumInputs: 1, Oracle: "unknown", Shots: 1},
	}

	res, err := Sweep(context.Background(), NewRunner(), configs, 0)
	assert.ErrorIs(t, err, oracle.ErrUnsupportedOracle)
	assert.Nil(t, res)
}

func TestGrid_Seeds(t *testing.T) {
	configs := Grid([]int{1, 2}, []oracle.Kind{oracle.ConstantZero}, 10, seed(100))
	require.Len(t, configs, 2)
	assert.Equal(t, uint64(100), *configs[0].Seed)
	assert.Equal(t, uint64(101), *configs[1].Seed)

	unseeded := Grid([]int{1}, oracle.Kinds, 10, nil)
	for _, cfg := range unseeded {
		assert.Nil(t, cfg.Seed)
	}
}
