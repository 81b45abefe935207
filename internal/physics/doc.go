// Package physics provides vector fields for three-variable systems.
//
// Each field is a plain [dynamo.Field]; coefficients travel separately
// as [dynamo.Params] so one field can be integrated under several
// parameterizations:
//
//   - [Lorenz]: butterfly attractor, (A, B, C) = (sigma, rho, beta)
//   - [Rossler]: spiral attractor, (A, B, C) = (a, b, c)
//   - [Decay]: linear test equation dx/dt = -A*x with a closed form
//   - [Zero]: identically zero derivative
package physics
