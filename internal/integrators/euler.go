package integrators

import "github.com/san-kum/coulombsim/internal/dynamo"

// ExplicitEuler advances position with the old velocity, then velocity with
// the acceleration evaluated at t+dt on the already moved position.
//
// NOTE: textbook forward Euler evaluates the acceleration at t before moving.
// The ordering here is kept as observed by existing consumers; treat results
// from this variant as suspect when comparing schemes.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Integrate(s *dynamo.MotionState, t, dt float64) *dynamo.MotionState {
	s.Position = s.Position.Add(s.Velocity.Mul(dt))
	s.Velocity = s.Velocity.Add(s.EvaluateAccelerationAt(t + dt).Mul(dt))
	return s
}

// SemiImplicitEuler is the symplectic Euler scheme: velocity first, then
// position with the new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Integrate(s *dynamo.MotionState, t, dt float64) *dynamo.MotionState {
	s.Velocity = s.Velocity.Add(s.EvaluateAccelerationAt(t + dt).Mul(dt))
	s.Position = s.Position.Add(s.Velocity.Mul(dt))
	return s
}
