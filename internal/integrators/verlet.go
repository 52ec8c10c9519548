package integrators

import "github.com/san-kum/coulombsim/internal/dynamo"

// VelocityVerlet uses the acceleration cached on the state from the previous
// step (or from NewMotionState) as a(t), and one fresh evaluation at t+dt.
type VelocityVerlet struct{}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Integrate(s *dynamo.MotionState, t, dt float64) *dynamo.MotionState {
	aOld := s.Acceleration
	s.Position = s.Position.Add(s.Velocity.Mul(dt)).Add(aOld.Mul(0.5 * dt * dt))
	aNew := s.EvaluateAccelerationAt(t + dt)
	s.Velocity = s.Velocity.Add(aOld.Add(aNew).Mul(0.5 * dt))
	return s
}
