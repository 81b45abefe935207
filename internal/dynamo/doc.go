// Package dynamo provides the core primitives for fixed-step integration
// of three-variable ordinary differential equations (ODEs):
//
//   - [State]: the (x, y, z) vector, a value type
//   - [Params]: scalar coefficients (A, B, C) of a vector field
//   - [Field]: the derivative function dX/dt = f(t, X, p)
//   - [Stepper]: a single fixed-step update rule
//   - [Trajectory]: the sampled states of one run
//
// # Example
//
//	traj, err := integrators.Integrate(physics.Lorenz, physics.DefaultState,
//	    0, 0.02, 70, physics.ReferenceParams, integrators.RK4)
//
// # Thread Safety
//
// All types are immutable values or slices that are never written after
// a run returns, so trajectories may be shared between goroutines once
// produced.
package dynamo
