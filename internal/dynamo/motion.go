package dynamo

// AccelerationFunc returns the acceleration of a body at the given position,
// velocity and time. Implementations may read shared state but must return
// the same value for the same inputs within one integration step.
type AccelerationFunc func(pos, vel Vec3, t float64) Vec3

// MotionState is the second-order state of one body. Acceleration caches the
// result of the most recent EvaluateAccelerationAt call; Velocity Verlet
// relies on it carrying over between steps.
type MotionState struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3

	accel AccelerationFunc
}

// NewMotionState returns a state whose cached acceleration is primed at t0.
// A nil fn means zero acceleration.
func NewMotionState(pos, vel Vec3, t0 float64, fn AccelerationFunc) *MotionState {
	s := &MotionState{Position: pos, Velocity: vel, accel: fn}
	s.EvaluateAccelerationAt(t0)
	return s
}

// EvaluateAccelerationAt evaluates the injected function at the current
// position and velocity, caches the result and returns it.
func (s *MotionState) EvaluateAccelerationAt(t float64) Vec3 {
	if s.accel == nil {
		s.Acceleration = Vec3{}
		return s.Acceleration
	}
	s.Acceleration = s.accel(s.Position, s.Velocity, t)
	return s.Acceleration
}

// Clone returns an independent copy sharing the same evaluator.
func (s *MotionState) Clone() *MotionState {
	c := *s
	return &c
}

// SetAccelerationFunc swaps the evaluator without touching the cached value.
func (s *MotionState) SetAccelerationFunc(fn AccelerationFunc) {
	s.accel = fn
}

func (s *MotionState) IsValid() bool {
	return IsFinite(s.Position) && IsFinite(s.Velocity)
}
