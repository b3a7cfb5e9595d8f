// Package analysis characterizes double pendulum trajectories.
//
//   - [DivergenceRate]: growth rate of the separation of two nearby bodies
//   - [Sweep]: divergence rate across a range of one parameter
//   - [PowerSpectrum]: magnitude spectrum of a sampled angle
//   - [NewPhasePortrait], [NewPoincareSection]: 2D views of a recorded trace
//
// # Chaos Detection
//
// A positive divergence rate means nearby bodies separate exponentially:
//
//	rate, err := analysis.DivergenceRate(body, stepper, cfg.T, cfg.S, 2000, 1e-8)
//	if err == nil && rate > 0 {
//	    // chaotic
//	}
package analysis
