package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short for a spectrum")

// PowerSpectrum returns the magnitude of the first n/2 Fourier
// coefficients of the mean-removed series, and the bin spacing
// 1/(n*dt). Any non-finite value is an error.
func PowerSpectrum(values []float64, dt float64) ([]float64, float64, error) {
	n := len(values)
	if n < 2 {
		return nil, 0, ErrShortSeries
	}

	mean := 0.0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, fmt.Errorf("analysis: non-finite sample at %d", i)
		}
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range values {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}

	return ps, 1 / (float64(n) * dt), nil
}

// DominantFrequency is the frequency of the largest non-DC bin.
func DominantFrequency(power []float64, df float64) float64 {
	best := 0
	for k := 1; k < len(power); k++ {
		if best == 0 || power[k] > power[best] {
			best = k
		}
	}
	return float64(best) * df
}
