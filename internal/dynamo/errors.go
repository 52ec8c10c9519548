package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity that became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrCoincidentReference indicates two coordinate reference points at the
	// same location, which leaves the calc/world scale undefined.
	ErrCoincidentReference = errors.New("dynamo: coordinate reference points coincide")

	// ErrCapacityExceeded indicates an add beyond the configured charge limit.
	ErrCapacityExceeded = errors.New("dynamo: maximum charge count reached")

	// ErrDuplicateCharge indicates a charge that is already part of the engine.
	ErrDuplicateCharge = errors.New("dynamo: charge already added")

	// ErrNilCharge indicates a nil charge handed to the engine.
	ErrNilCharge = errors.New("dynamo: nil charge")

	// ErrUnknownIntegrator indicates an integrator name with no registered variant.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownMode indicates a coordinate mode other than 2d or 3d.
	ErrUnknownMode = errors.New("dynamo: unknown coordinate mode")
)

// SimError reports a numerical failure at a specific tick.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
