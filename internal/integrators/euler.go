package integrators

import "github.com/san-kum/fixstep/internal/dynamo"

// EulerStep is the explicit forward rule: one field evaluation per step,
// first order accurate.
type EulerStep struct{}

func NewEuler() *EulerStep {
	return &EulerStep{}
}

func (e *EulerStep) Step(f dynamo.Field, x dynamo.State, p dynamo.Params, t, dt float64) dynamo.State {
	dx := f(t, x, p)
	var result dynamo.State
	for i := range x {
		result[i] = x[i] + float64(dt*dx[i])
	}
	return result
}
