package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a parameter rejected before any state mutation.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNumericFault indicates a body's angle or velocity became NaN or Inf.
	ErrNumericFault = errors.New("dynamo: numeric fault (NaN or Inf detected)")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError is shorthand used by validators.
func NewConfigError(field string, value float64, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// NumericFault records where integration of a single body broke down.
// Body is -1 when the fault was raised outside a population.
type NumericFault struct {
	Body    int
	Substep int
	State   [4]float64 // a1, a2, v1, v2 at the time of detection
}

func (e *NumericFault) Error() string {
	return fmt.Sprintf("body %d substep %d: %s (a1=%g a2=%g v1=%g v2=%g)",
		e.Body, e.Substep, ErrNumericFault, e.State[0], e.State[1], e.State[2], e.State[3])
}

func (e *NumericFault) Unwrap() error {
	return ErrNumericFault
}
