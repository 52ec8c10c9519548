package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/coulombsim/internal/sim"
)

// Divergence estimates the exponential growth rate of the distance between
// two runs started from nearby states. It fits ln|d(t)| against t over the
// frames both runs share. A positive rate means the configuration amplifies
// small perturbations.
func Divergence(a, b *sim.Result) float64 {
	n := len(a.Frames)
	if len(b.Frames) < n {
		n = len(b.Frames)
	}

	ts := make([]float64, 0, n)
	logs := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		fa, fb := a.Frames[i], b.Frames[i]
		if len(fa.Positions) != len(fb.Positions) {
			break
		}

		sep := 0.0
		for j := range fa.Positions {
			d := fa.Positions[j].Sub(fb.Positions[j]).Len()
			sep += d * d
		}
		sep = math.Sqrt(sep)

		if sep > 0 && !math.IsInf(sep, 0) && !math.IsNaN(sep) {
			ts = append(ts, fa.Time)
			logs = append(logs, math.Log(sep))
		}
	}

	if len(ts) < 2 {
		return 0
	}

	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope
}
