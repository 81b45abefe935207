package physics

import "github.com/san-kum/fixstep/internal/dynamo"

// ReferenceParams are the Lorenz coefficients (sigma, rho, beta) used for
// the three-scheme comparison.
var ReferenceParams = dynamo.Params{A: 10.0, B: 25.0, C: 8.0 / 3.0}

// ClassicParams are Lorenz's original 1963 coefficients.
var ClassicParams = dynamo.Params{A: 10.0, B: 28.0, C: 8.0 / 3.0}

var DefaultState = dynamo.State{1.0, 1.0, 1.0}

// Lorenz calculates the Lorenz attractor derivatives with A = sigma,
// B = rho and C = beta. t is unused.
//
// sigma multiplies y and x separately rather than their difference, and
// every product is rounded on its own (the conversions block fused
// multiply-add), so reference runs reproduce bit for bit.
func Lorenz(_ float64, s dynamo.State, p dynamo.Params) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		float64(p.A*y) - float64(p.A*x),
		float64(-x*z) + float64(p.B*x) - y,
		float64(x*y) - float64(p.C*z),
	}
}
