package analysis

import (
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories with the same stepper
// 2. After every step, accumulate ln(|δx|/δ0) and rescale the
// perturbed state back to distance δ0 along the separation
// 3. λ ≈ Σ ln(|δx|/δ0) / (steps * dt)
func LyapunovExponent(
	st dynamo.Stepper,
	f dynamo.Field,
	p dynamo.Params,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if perturbation <= 0 || dt <= 0 || duration <= 0 {
		return 0
	}

	x := x0
	xp := x0
	xp[0] += perturbation

	t := 0.0
	sumLog := 0.0
	count := 0

	for t < duration {
		x = st.Step(f, x, p, t, dt)
		xp = st.Step(f, xp, p, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}

		sumLog += math.Log(sep / perturbation)
		count++

		xp = x.Add(xp.Sub(x).Scale(perturbation / sep))
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
