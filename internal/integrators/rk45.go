package integrators

import (
	"math"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
const (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	DefaultRK45Tolerance = 1e-8
	maxRK45Substeps      = 10000
)

// RK45 covers each step with adaptive Dormand-Prince substeps whose
// estimated relative error stays under Tol. Substeps never shrink below
// MinFraction of the outer step, and the step always lands exactly on t+dt.
type RK45 struct {
	Tol         float64
	MinFraction float64

	safety   float64
	minScale float64
	maxScale float64
	scratch  dynamo.MotionState
}

func NewRK45() *RK45 {
	return &RK45{
		Tol:         DefaultRK45Tolerance,
		MinFraction: 1e-6,
		safety:      0.9,
		minScale:    0.2,
		maxScale:    10.0,
	}
}

func (r *RK45) Integrate(s *dynamo.MotionState, t, dt float64) *dynamo.MotionState {
	tol := r.Tol
	if tol <= 0 {
		tol = DefaultRK45Tolerance
	}
	hMin := dt * r.MinFraction

	cur, remaining, h := t, dt, dt
	for i := 0; remaining > dt*1e-12; i++ {
		if h > remaining {
			h = remaining
		}
		dx, dv, hNext := r.attempt(s, cur, h, tol)
		if hNext >= h || h <= hMin || i >= maxRK45Substeps {
			s.Position = s.Position.Add(dx)
			s.Velocity = s.Velocity.Add(dv)
			cur += h
			remaining -= h
		}
		h = math.Max(hNext, hMin)
	}

	s.EvaluateAccelerationAt(t + dt)
	return s
}

// attempt takes one trial substep of size h from s and returns the
// position and velocity increments with the next suggested substep. A
// suggestion smaller than h means the trial was rejected.
func (r *RK45) attempt(s *dynamo.MotionState, t, h, tol float64) (dx, dv dynamo.Vec3, hNext float64) {
	k1 := r.evaluate(s, t, derivative{})
	k2 := r.evaluate(s, t+a2*h, combine(h, []derivative{k1}, []float64{b21}))
	k3 := r.evaluate(s, t+a3*h, combine(h, []derivative{k1, k2}, []float64{b31, b32}))
	k4 := r.evaluate(s, t+a4*h, combine(h, []derivative{k1, k2, k3}, []float64{b41, b42, b43}))
	k5 := r.evaluate(s, t+a5*h, combine(h, []derivative{k1, k2, k3, k4}, []float64{b51, b52, b53, b54}))
	k6 := r.evaluate(s, t+h, combine(h, []derivative{k1, k2, k3, k4, k5}, []float64{b61, b62, b63, b64, b65}))

	step := combine(h, []derivative{k1, k3, k4, k5, k6}, []float64{c1, c3, c4, c5, c6})
	k7 := r.evaluate(s, t+h, step)
	errEst := combine(h, []derivative{k1, k3, k4, k5, k6, k7}, []float64{dc1, dc3, dc4, dc5, dc6, dc7})

	errMax := 0.0
	for i := 0; i < 3; i++ {
		scale := math.Abs(s.Position[i]) + math.Abs(h*k1.dx[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst.dx[i])/scale)
		scale = math.Abs(s.Velocity[i]) + math.Abs(h*k1.dv[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst.dv[i])/scale)
	}

	errRatio := errMax / tol
	switch {
	case math.IsNaN(errRatio):
		hNext = h
	case errRatio > 1:
		hNext = h * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		hNext = h * math.Max(1, math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2)))
	default:
		hNext = h * r.maxScale
	}

	return step.dx, step.dv, hNext
}

// evaluate returns the derivative at s offset by d.
func (r *RK45) evaluate(s *dynamo.MotionState, t float64, d derivative) derivative {
	r.scratch = *s
	r.scratch.Position = r.scratch.Position.Add(d.dx)
	r.scratch.Velocity = r.scratch.Velocity.Add(d.dv)
	return derivative{
		dx: r.scratch.Velocity,
		dv: r.scratch.EvaluateAccelerationAt(t),
	}
}

// combine returns h times the weighted sum of ks.
func combine(h float64, ks []derivative, ws []float64) derivative {
	var out derivative
	for i, k := range ks {
		out.dx = out.dx.Add(k.dx.Mul(ws[i] * h))
		out.dv = out.dv.Add(k.dv.Mul(ws[i] * h))
	}
	return out
}
