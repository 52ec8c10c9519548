package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type (
	Vec3 = mgl64.Vec3
	Vec4 = mgl64.Vec4
)

// IsFinite reports whether every component of v is a real number.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Integrator interface {
	Integrate(s *MotionState, t, dt float64) *MotionState
}

// Frame holds the positions and charge values of every charge at one tick,
// in engine order.
type Frame struct {
	Step      int
	Time      float64
	Positions []Vec3
	Charges   []float64
}

func (f Frame) IsValid() bool {
	for _, p := range f.Positions {
		if !IsFinite(p) {
			return false
		}
	}
	return true
}

func (f Frame) Clone() Frame {
	c := Frame{Step: f.Step, Time: f.Time}
	c.Positions = make([]Vec3, len(f.Positions))
	copy(c.Positions, f.Positions)
	c.Charges = make([]float64, len(f.Charges))
	copy(c.Charges, f.Charges)
	return c
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.016,
		Duration:      5.0,
		ValidateState: true,
	}
}
