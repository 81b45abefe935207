package integrators

import "github.com/san-kum/fixstep/internal/dynamo"

// RK4Step is the classic four-stage Runge-Kutta rule.
type RK4Step struct{}

func NewRK4() *RK4Step {
	return &RK4Step{}
}

func (r *RK4Step) Step(f dynamo.Field, x dynamo.State, p dynamo.Params, t, dt float64) dynamo.State {
	k1 := f(t, x, p).Scale(dt)
	k2 := f(t+0.5*dt, x.Add(k1.Scale(0.5)), p).Scale(dt)
	k3 := f(t+0.5*dt, x.Add(k2.Scale(0.5)), p).Scale(dt)
	k4 := f(t+dt, x.Add(k3), p).Scale(dt)

	var result dynamo.State
	for i := range x {
		result[i] = x[i] + (k1[i]+2*k2[i]+2*k3[i]+k4[i])/6
	}
	return result
}
