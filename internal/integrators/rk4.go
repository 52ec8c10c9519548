package integrators

import "github.com/san-kum/coulombsim/internal/dynamo"

type derivative struct {
	dx dynamo.Vec3 // velocity
	dv dynamo.Vec3 // acceleration
}

// RK4 is the classical fourth order Runge-Kutta scheme. Stages are evaluated
// on a scratch copy so the caller's cached acceleration is only refreshed
// once, at t+dt, after the step is applied.
type RK4 struct {
	scratch dynamo.MotionState
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Integrate(s *dynamo.MotionState, t, dt float64) *dynamo.MotionState {
	k1 := r.evaluate(s, t, 0, derivative{})
	k2 := r.evaluate(s, t, dt*0.5, k1)
	k3 := r.evaluate(s, t, dt*0.5, k2)
	k4 := r.evaluate(s, t, dt, k3)

	const sixth = 1.0 / 6.0
	dxdt := k1.dx.Add(k2.dx.Mul(2)).Add(k3.dx.Mul(2)).Add(k4.dx).Mul(sixth)
	dvdt := k1.dv.Add(k2.dv.Mul(2)).Add(k3.dv.Mul(2)).Add(k4.dv).Mul(sixth)

	s.Position = s.Position.Add(dxdt.Mul(dt))
	s.Velocity = s.Velocity.Add(dvdt.Mul(dt))
	s.EvaluateAccelerationAt(t + dt)

	return s
}

func (r *RK4) evaluate(initial *dynamo.MotionState, t, dt float64, d derivative) derivative {
	r.scratch = *initial
	r.scratch.Position = r.scratch.Position.Add(d.dx.Mul(dt))
	r.scratch.Velocity = r.scratch.Velocity.Add(d.dv.Mul(dt))
	return derivative{
		dx: r.scratch.Velocity,
		dv: r.scratch.EvaluateAccelerationAt(t + dt),
	}
}
