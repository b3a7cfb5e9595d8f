// Package dynamo provides the shared primitives of the pendulum simulator.
//
// The package defines the types every other layer agrees on:
//
//   - [Point] and [Joints]: Cartesian positions handed to renderers
//   - [ConfigError]: rejected construction or reseed parameters
//   - [NumericFault]: a body whose state became NaN or Inf
//   - [ParallelFor]: chunked fan-out with a completion barrier
//
// # Errors
//
// Both error types wrap a sentinel so callers can branch with errors.Is:
//
//	if errors.Is(err, dynamo.ErrInvalidConfig) {
//	    // keep the previous population
//	}
//
// # Thread Safety
//
// Values in this package are plain data. [ParallelFor] returns only after
// every chunk has finished.
package dynamo
