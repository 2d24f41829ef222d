package state

import "errors"

// Sentinel errors shared by the quantum evolution packages.
// All validation failures wrap one of these and are checkable with errors.Is.
var (
	// ErrShape reports a tensor rank or axis-dimension mismatch.
	ErrShape = errors.New("shape mismatch")

	// ErrIndex reports a qubit index outside the declared range, or a
	// duplicate target/control index.
	ErrIndex = errors.New("qubit index out of range")

	// ErrBatchMismatch reports non-broadcastable batch sizes between
	// states and parameter values.
	ErrBatchMismatch = errors.New("batch size mismatch")
)
