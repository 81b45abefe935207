// Package analysis compares trajectories and characterizes the schemes
// that produced them:
//
//   - [DivergenceSeries], [MaxDivergence], [SeparationStep]: distance
//     between two trajectories step by step
//   - [ConvergenceStudy], [ObservedOrder]: empirical order of accuracy
//     against an analytic solution
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [PowerSpectrum], [DominantFrequency]: frequency content of one channel
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent means nearby trajectories separate
// exponentially, so schemes can only be expected to agree over short
// horizons:
//
//	lambda := analysis.LyapunovExponent(integrators.NewRK4(), physics.Lorenz,
//	    physics.ReferenceParams, physics.DefaultState, 0.01, 50, 1e-8)
package analysis
