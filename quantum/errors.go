package quantum

import "errors"

var (
	// ErrInvalidQubitIndex is returned when a gate or register refers to a
	// qubit outside the register.
	ErrInvalidQubitIndex = errors.New("invalid qubit index")

	// ErrNormalization is returned when the probability mass of a state
	// drifts from 1 beyond tolerance.
	ErrNormalization = errors.New("state is not normalized")

	// ErrResourceLimitExceeded is returned when a register would exceed the
	// qubit ceiling.
	ErrResourceLimitExceeded = errors.New("resource limit exceeded")

	// ErrUnknownGate is returned for a gate kind the applicator does not know.
	ErrUnknownGate = errors.New("unknown gate")
)
