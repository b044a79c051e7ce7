package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateVector(t *testing.T) {
	s, err := NewStateVector(3)
	require.NoError(t, err)

	assert.Equal(t, 3, s.NumQubits())
	assert.Equal(t, 8, s.Dimension())
	assert.Equal(t, complex(1, 0), s.AmplitudeAt(0))
	for i := 1; i < s.Dimension(); i++ {
		assert.Equal(t, complex(0, 0), s.AmplitudeAt(i), "basis %d", i)
	}
	assert.NoError(t, s.CheckNormalized(NormTolerance))
}

func TestNewStateVector_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		qubits  int
		wantErr error
	}{
		{"zero qubits", 0, ErrInvalidQubitIndex},
		{"negative qubits", -2, ErrInvalidQubitIndex},
		{"over ceiling", MaxQubits + 1, ErrResourceLimitExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewStateVector(tc.qubits)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, s)
		})
	}
}

func TestAmplitudeAt_OutOfRange(t *testing.T) {
	s, err := NewStateVector(1)
	require.NoError(t, err)

	assert.Equal(t, complex(0, 0), s.AmplitudeAt(-1))
	assert.Equal(t, complex(0, 0), s.AmplitudeAt(2))
}

func TestClone_IsIndependent(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)

	c := s.Clone()
	require.NoError(t, Apply(c, X(0)))

	assert.Equal(t, complex(1, 0), s.AmplitudeAt(0))
	assert.Equal(t, complex(1, 0), c.AmplitudeAt(1))
}

func TestCheckNormalized_DetectsDrift(t *testing.T) {
	s, err := NewStateVector(1)
	require.NoError(t, err)

	s.amplitudes[1] = 0.1
	assert.ErrorIs(t, s.CheckNormalized(NormTolerance), ErrNormalization)
}

func TestQubitProbabilities(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, ApplyAll(s, H(0), X(1)))

	probs := s.QubitProbabilities()
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs[0].Prob0, 1e-12)
	assert.InDelta(t, 0.5, probs[0].Prob1, 1e-12)
	assert.InDelta(t, 0.0, probs[1].Prob0, 1e-12)
	assert.InDelta(t, 1.0, probs[1].Prob1, 1e-12)
}
