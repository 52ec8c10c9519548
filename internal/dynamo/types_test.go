package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestFrame_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		valid bool
	}{
		{"empty", Frame{}, true},
		{"normal", Frame{Positions: []Vec3{{1, 2, 3}, {0, 0, 0}}}, true},
		{"with NaN", Frame{Positions: []Vec3{{1, math.NaN(), 0}}}, false},
		{"with +Inf", Frame{Positions: []Vec3{{math.Inf(1), 0, 0}}}, false},
		{"with -Inf", Frame{Positions: []Vec3{{0, 0, math.Inf(-1)}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestFrame_Clone(t *testing.T) {
	f := Frame{Step: 3, Time: 0.5, Positions: []Vec3{{1, 2, 3}}, Charges: []float64{-1}}
	c := f.Clone()
	c.Positions[0][0] = 99
	c.Charges[0] = 5

	if f.Positions[0][0] != 1 || f.Charges[0] != -1 {
		t.Error("Clone did not create independent copy")
	}
	if c.Step != 3 || c.Time != 0.5 {
		t.Errorf("Clone lost step/time: got %d/%v", c.Step, c.Time)
	}
}

func TestMotionState_EvaluateCaches(t *testing.T) {
	calls := 0
	fn := func(pos, vel Vec3, t float64) Vec3 {
		calls++
		return Vec3{-pos[0], 0, t}
	}

	s := NewMotionState(Vec3{2, 0, 0}, Vec3{}, 1.5, fn)
	if calls != 1 {
		t.Fatalf("expected constructor to prime acceleration once, got %d calls", calls)
	}
	if s.Acceleration != (Vec3{-2, 0, 1.5}) {
		t.Errorf("primed acceleration = %v", s.Acceleration)
	}

	s.Position = Vec3{3, 0, 0}
	a := s.EvaluateAccelerationAt(2)
	if a != (Vec3{-3, 0, 2}) || s.Acceleration != a {
		t.Errorf("EvaluateAccelerationAt did not refresh cache: got %v, cached %v", a, s.Acceleration)
	}
}

func TestMotionState_NilFunc(t *testing.T) {
	s := NewMotionState(Vec3{1, 1, 1}, Vec3{1, 0, 0}, 0, nil)
	if a := s.EvaluateAccelerationAt(10); a != (Vec3{}) {
		t.Errorf("expected zero acceleration, got %v", a)
	}
}

func TestMotionState_Clone(t *testing.T) {
	fn := func(pos, vel Vec3, t float64) Vec3 { return pos.Mul(-1) }
	s := NewMotionState(Vec3{1, 0, 0}, Vec3{0, 1, 0}, 0, fn)

	c := s.Clone()
	c.Position = Vec3{5, 0, 0}
	c.EvaluateAccelerationAt(0)

	if s.Position != (Vec3{1, 0, 0}) {
		t.Error("Clone shares position with original")
	}
	if s.Acceleration != (Vec3{-1, 0, 0}) {
		t.Errorf("original cache changed: %v", s.Acceleration)
	}
	if c.Acceleration != (Vec3{-5, 0, 0}) {
		t.Errorf("clone did not keep evaluator: %v", c.Acceleration)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Duration <= 0 {
		t.Error("DefaultConfig has invalid Duration")
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error", Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimError should unwrap to ErrInvalidState")
	}
}
