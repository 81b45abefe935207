package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
)

// ConvergencePoint is the final-time error of one run at step size Dt.
type ConvergencePoint struct {
	Dt    float64
	Steps int
	Error float64
}

// ExactFunc returns the analytic solution at time t.
type ExactFunc func(t float64) dynamo.State

// ConvergenceStudy integrates f with scheme at s.Dt and at halvings
// successive halvings of it, recording the distance between the final
// state and the exact solution at the final sample time.
func ConvergenceStudy(scheme integrators.Scheme, f dynamo.Field, exact ExactFunc, s dynamo.Settings, p dynamo.Params, halvings int) ([]ConvergencePoint, error) {
	if halvings < 1 {
		return nil, fmt.Errorf("convergence study needs at least one halving, got %d", halvings)
	}
	st, err := scheme.Stepper()
	if err != nil {
		return nil, err
	}

	points := make([]ConvergencePoint, 0, halvings+1)
	run := s
	for k := 0; k <= halvings; k++ {
		traj, err := integrators.IntegrateWith(st, f, run, p)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", run.Dt, err)
		}

		steps := traj.Len() - 1
		tEnd := run.T0 + float64(steps)*run.Dt
		diff := traj.Final().Sub(exact(tEnd))
		points = append(points, ConvergencePoint{Dt: run.Dt, Steps: steps, Error: diff.Norm()})

		run.Dt /= 2
	}
	return points, nil
}

// ObservedOrder returns log2(e[k]/e[k+1]) for each successive pair of
// points. A pair with a zero error yields +Inf or NaN.
func ObservedOrder(points []ConvergencePoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	orders := make([]float64, len(points)-1)
	for k := range orders {
		ratio := points[k].Error / points[k+1].Error
		orders[k] = math.Log(ratio) / math.Log(points[k].Dt/points[k+1].Dt)
	}
	return orders
}
