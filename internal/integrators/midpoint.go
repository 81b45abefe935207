package integrators

import "github.com/san-kum/fixstep/internal/dynamo"

// MidpointStep samples the slope half a step ahead and applies it over the
// full step. Two field evaluations per step, second order accurate.
type MidpointStep struct{}

func NewMidpoint() *MidpointStep {
	return &MidpointStep{}
}

func (m *MidpointStep) Step(f dynamo.Field, x dynamo.State, p dynamo.Params, t, dt float64) dynamo.State {
	k1 := f(t, x, p).Scale(dt)
	k2 := f(t+0.5*dt, x.Add(k1.Scale(0.5)), p).Scale(dt)
	return x.Add(k2)
}
