// Package physics provides the double pendulum body model.
//
// A [DoublePendulum] holds one body's masses, rod lengths, angles, angular
// velocities and gravity. Construct it with [NewDoublePendulum], which
// rejects non-positive masses and lengths before any integration happens:
//
//	body, err := physics.NewDoublePendulum(4, 1, 200, 150, 1.2995, 2, 0, 0, 0.5)
//	if err != nil {
//	    return err // *dynamo.ConfigError
//	}
//	dv1, dv2 := body.Accelerations()
//
// # Energy
//
// [DoublePendulum.Energy] reports mechanical energy with the pivot as the
// potential reference. The simulator does not correct drift; the value is
// only observed.
package physics
