package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fixstep/internal/dynamo"
)

// DivergenceSeries returns the Euclidean distance between a and b at each
// step of their common prefix.
func DivergenceSeries(a, b dynamo.Trajectory) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = floats.Distance(a[i][:], b[i][:], 2)
	}
	return out
}

// MaxDivergence returns the largest distance between a and b over their
// common prefix and the step where it occurs. Empty input yields (0, -1).
func MaxDivergence(a, b dynamo.Trajectory) (float64, int) {
	series := DivergenceSeries(a, b)
	if len(series) == 0 {
		return 0, -1
	}
	idx := floats.MaxIdx(series)
	return series[idx], idx
}

// SeparationStep returns the first step at which a and b are farther
// apart than threshold, or -1 if they never are.
func SeparationStep(a, b dynamo.Trajectory, threshold float64) int {
	for i, d := range DivergenceSeries(a, b) {
		if d > threshold {
			return i
		}
	}
	return -1
}

// Bounds returns the minimum and maximum of channel i.
func Bounds(tr dynamo.Trajectory, i int) (lo, hi float64, err error) {
	if err := dynamo.CheckChannel(i); err != nil {
		return 0, 0, err
	}
	if len(tr) == 0 {
		return 0, 0, nil
	}
	col := tr.Column(i)
	return floats.Min(col), floats.Max(col), nil
}
