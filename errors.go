package hardisk

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeTime is returned when a simulation is asked to run for a
	// negative amount of time.
	ErrNegativeTime = errors.New("hardisk: total simulation time is negative")

	// ErrNoCollision means that no wall or particle collision exists. This
	// cannot happen in a bounded box unless every particle is at rest.
	ErrNoCollision = errors.New("hardisk: no pending collision")
)

// ConfigError is returned by New when the simulation parameters are invalid.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s = %g)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Wrapped }

// StepError wraps an error which aborted a run with the step and simulation
// time at which it happened.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf(
		"step %d, t = %g: %s", e.Step, e.Time, e.Wrapped.Error(),
	)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
