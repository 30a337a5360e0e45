package wheelpole

import (
	"errors"
	"fmt"
)

// Domain errors for model operations.
var (
	// ErrInvalidParams indicates physical parameters the model cannot integrate.
	ErrInvalidParams = errors.New("wheelpole: invalid physical parameters")

	// ErrNotReset indicates Step was called before the first Reset.
	ErrNotReset = errors.New("wheelpole: step called before reset")

	// ErrInvalidState indicates the integration produced NaN or Inf.
	ErrInvalidState = errors.New("wheelpole: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the context of the step that produced it.
type StepError struct {
	Step    int
	Torque  float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (torque=%.4f): %v", e.Step, e.Torque, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
