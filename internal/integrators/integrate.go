package integrators

import (
	"context"
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

// Integrate advances initial from t0 in steps of dt while the time at the
// start of a step is below tmax, using the accumulating clock. The
// returned trajectory starts with initial.
func Integrate(f dynamo.Field, initial dynamo.State, t0, dt, tmax float64, p dynamo.Params, scheme Scheme) (dynamo.Trajectory, error) {
	st, err := scheme.Stepper()
	if err != nil {
		return nil, err
	}
	s := dynamo.Settings{Initial: initial, T0: t0, Dt: dt, TMax: tmax}
	return IntegrateWith(st, f, s, p)
}

// IntegrateWith runs any stepping rule over the settings.
func IntegrateWith(st dynamo.Stepper, f dynamo.Field, s dynamo.Settings, p dynamo.Params) (dynamo.Trajectory, error) {
	return IntegrateContext(context.Background(), st, f, s, p)
}

// IntegrateContext is IntegrateWith with cancellation checked between
// steps. On cancellation the samples produced so far are returned along
// with the context error.
func IntegrateContext(ctx context.Context, st dynamo.Stepper, f dynamo.Field, s dynamo.Settings, p dynamo.Params) (dynamo.Trajectory, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	traj := make(dynamo.Trajectory, 0, StepCount(s))
	traj = append(traj, s.Initial)

	x := s.Initial
	t := s.T0
	for i := 1; t < s.TMax; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		x = st.Step(f, x, p, t, s.Dt)
		traj = append(traj, x)

		if s.Clock == dynamo.ClockIndexed {
			t = s.T0 + float64(float64(i)*s.Dt)
		} else {
			t += s.Dt
		}
	}

	return traj, nil
}

// StepCount predicts the trajectory length for the settings, including
// the initial state. It returns 0 for invalid settings.
func StepCount(s dynamo.Settings) int {
	if s.Validate() != nil {
		return 0
	}

	if s.Clock == dynamo.ClockIndexed {
		n := int(math.Ceil((s.TMax - s.T0) / s.Dt))
		for n > 0 && s.T0+float64(float64(n-1)*s.Dt) >= s.TMax {
			n--
		}
		for s.T0+float64(float64(n)*s.Dt) < s.TMax {
			n++
		}
		return n + 1
	}

	n := 1
	for t := s.T0; t < s.TMax; t += s.Dt {
		n++
	}
	return n
}
