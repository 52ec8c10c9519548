package sim

import (
	"github.com/google/uuid"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

type Config = dynamo.Config

func DefaultConfig() Config { return dynamo.DefaultConfig() }

// Result is the recorded trajectory of one run. Frames[0] is the state
// before the first tick.
type Result struct {
	IDs        []uuid.UUID
	Frames     []dynamo.Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Times returns the time of every recorded frame.
func (r *Result) Times() []float64 {
	times := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		times[i] = f.Time
	}
	return times
}

// Series returns one coordinate (0=x, 1=y, 2=z) of charge idx across all
// frames.
func (r *Result) Series(idx, axis int) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if idx < len(f.Positions) {
			out = append(out, f.Positions[idx][axis])
		}
	}
	return out
}

// Separation returns the distance between charges a and b across all frames.
func (r *Result) Separation(a, b int) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if a < len(f.Positions) && b < len(f.Positions) {
			out = append(out, f.Positions[a].Sub(f.Positions[b]).Len())
		}
	}
	return out
}
