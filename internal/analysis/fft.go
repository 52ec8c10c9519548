package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// with its mean removed. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-floats.Sum(centered)/float64(len(centered)), centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of data sampled every dt seconds, or 0 when there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	peak := floats.MaxIdx(ps[1:]) + 1
	if ps[peak] == 0 {
		return 0
	}
	return float64(peak) / (float64(len(data)) * dt)
}
