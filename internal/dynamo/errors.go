package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for body construction and simulation.
var (
	// ErrNonPositiveMass rejects a body whose mass is zero or negative.
	ErrNonPositiveMass = errors.New("dynamo: body mass must be positive")

	// ErrNegativeRadius rejects a body with a negative render radius.
	ErrNegativeRadius = errors.New("dynamo: body radius must not be negative")

	// ErrNonFinite indicates a NaN or Inf input.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf)")

	// ErrCoincidentBodies indicates an orbiter placed on top of the anchor.
	ErrCoincidentBodies = errors.New("dynamo: orbiter coincides with anchor")

	// ErrNoOrbiters indicates a system without anything to move.
	ErrNoOrbiters = errors.New("dynamo: system has no orbiting bodies")

	// ErrInvalidTimestep indicates a negative or non-finite timestep.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive and finite")

	// ErrUnstable indicates the simulation produced a non-finite state.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    uint64
	Time    float64
	Body    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) body %s: %v", e.Tick, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
