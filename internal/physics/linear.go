package physics

import (
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

var DecayParams = dynamo.Params{A: 1.0}

// Decay is the linear test equation dx/dt = -A*x with y and z held
// constant. It has the closed form solution returned by DecayExact.
func Decay(_ float64, s dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{-p.A * s[0], 0, 0}
}

// DecayExact returns the exact Decay state at time t starting from x0 at t0.
func DecayExact(x0 dynamo.State, t0, t float64, p dynamo.Params) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(-p.A*(t-t0)), x0[1], x0[2]}
}

// Zero is the field whose derivative is identically zero.
func Zero(float64, dynamo.State, dynamo.Params) dynamo.State {
	return dynamo.State{}
}
