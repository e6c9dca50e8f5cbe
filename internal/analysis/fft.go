package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first len(data)/2 frequency
// bins. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-DC component of samples. The mean is removed first.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, errors.New("dt must be positive")
	}
	if len(samples) < 4 {
		return 0, errors.New("need at least 4 samples")
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for k := 1; k < len(ps); k++ {
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, errors.New("series has no periodic component")
	}

	return float64(len(samples)) * dt / float64(best), nil
}
