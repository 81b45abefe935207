package physics

import "github.com/san-kum/fixstep/internal/dynamo"

var RosslerParams = dynamo.Params{A: 0.2, B: 0.2, C: 5.7}

// Rossler calculates the Rossler attractor derivatives with (A, B, C) = (a, b, c).
func Rossler(_ float64, s dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{-s[1] - s[2], s[0] + p.A*s[1], p.B + s[2]*(s[0]-p.C)}
}
