package integrators

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

func spring(pos, vel dynamo.Vec3, t float64) dynamo.Vec3 {
	return pos.Mul(-1)
}

func oscillatorEnergy(s *dynamo.MotionState) float64 {
	return 0.5*s.Velocity.Dot(s.Velocity) + 0.5*s.Position.Dot(s.Position)
}

func allIntegrators() map[string]dynamo.Integrator {
	return map[string]dynamo.Integrator{
		ExplicitEulerName:     NewExplicitEuler(),
		SemiImplicitEulerName: NewSemiImplicitEuler(),
		RK4Name:               NewRK4(),
		VelocityVerletName:    NewVelocityVerlet(),
	}
}

func TestZeroAccelerationIsDrift(t *testing.T) {
	for name, integ := range allIntegrators() {
		t.Run(name, func(t *testing.T) {
			pos := dynamo.Vec3{1.25, -3.5, 0.75}
			vel := dynamo.Vec3{0.3, 2.0, -1.1}
			dt := 0.016

			s := dynamo.NewMotionState(pos, vel, 0, nil)
			got := integ.Integrate(s, 0.4, dt)

			if got != s {
				t.Error("Integrate should return the state it was given")
			}
			want := pos.Add(vel.Mul(dt))
			for i := 0; i < 3; i++ {
				if math.Abs(got.Position[i]-want[i]) > 1e-12 {
					t.Errorf("position[%d] = %.15f, want %.15f", i, got.Position[i], want[i])
				}
				if math.Abs(got.Velocity[i]-vel[i]) > 1e-12 {
					t.Errorf("velocity[%d] changed: got %.15f, want %.15f", i, got.Velocity[i], vel[i])
				}
			}
		})
	}
}

func TestSingleStepUpdateRules(t *testing.T) {
	tests := []struct {
		name     string
		integ    dynamo.Integrator
		wantPos  float64
		wantVel  float64
		cacheNew bool
	}{
		// position with old velocity, then a(x_new)
		{"explicit euler", NewExplicitEuler(), 1.1, 0.89, true},
		// velocity with a(x_old), then position with new velocity
		{"semi-implicit euler", NewSemiImplicitEuler(), 1.09, 0.9, false},
		{"velocity verlet", NewVelocityVerlet(), 1.095, 0.89525, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{1, 0, 0}, 0, spring)
			tt.integ.Integrate(s, 0, 0.1)

			if math.Abs(s.Position[0]-tt.wantPos) > 1e-12 {
				t.Errorf("position = %.12f, want %.12f", s.Position[0], tt.wantPos)
			}
			if math.Abs(s.Velocity[0]-tt.wantVel) > 1e-12 {
				t.Errorf("velocity = %.12f, want %.12f", s.Velocity[0], tt.wantVel)
			}
			if tt.cacheNew && s.Acceleration[0] != -s.Position[0] {
				t.Errorf("cached acceleration %.12f does not match new position", s.Acceleration[0])
			}
		})
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	dt := 0.01
	steps := 100

	s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{}, 0, spring)
	for i := 0; i < steps; i++ {
		integ.Integrate(s, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(s.Position[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", s.Position[0], expectedX)
	}
	if math.Abs(s.Velocity[0]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", s.Velocity[0], expectedV)
	}
}

func TestRK4EvaluationSchedule(t *testing.T) {
	var times []float64
	fn := func(pos, vel dynamo.Vec3, t float64) dynamo.Vec3 {
		times = append(times, t)
		return pos.Mul(-1)
	}

	s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{}, 2, fn)
	times = times[:0]

	NewRK4().Integrate(s, 2, 0.5)

	want := []float64{2, 2.25, 2.25, 2.5, 2.5}
	if len(times) != len(want) {
		t.Fatalf("expected %d evaluations, got %d (%v)", len(want), len(times), times)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("evaluation %d at t=%v, want %v", i, times[i], want[i])
		}
	}
	if s.Acceleration[0] != -s.Position[0] {
		t.Error("final evaluation should refresh the cached acceleration")
	}
}

func TestRK4DriftBelowExplicitEuler(t *testing.T) {
	drift := func(integ dynamo.Integrator) float64 {
		s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{}, 0, spring)
		e0 := oscillatorEnergy(s)
		maxDrift := 0.0
		dt := 0.1
		for i := 0; i < 1000; i++ {
			integ.Integrate(s, float64(i)*dt, dt)
			maxDrift = math.Max(maxDrift, math.Abs(oscillatorEnergy(s)-e0)/e0)
		}
		return maxDrift
	}

	euler := drift(NewExplicitEuler())
	rk4 := drift(NewRK4())

	if rk4*100 > euler {
		t.Errorf("expected rk4 drift far below explicit euler: rk4=%.3e euler=%.3e", rk4, euler)
	}
}

func TestVerletUsesCachedAcceleration(t *testing.T) {
	s := dynamo.NewMotionState(dynamo.Vec3{}, dynamo.Vec3{}, 0, nil)
	s.Acceleration = dynamo.Vec3{2, 0, 0}

	NewVelocityVerlet().Integrate(s, 0, 1)

	if s.Position[0] != 1 {
		t.Errorf("expected position 1 from cached acceleration, got %v", s.Position[0])
	}
	if s.Velocity[0] != 1 {
		t.Errorf("expected velocity 0.5*(2+0), got %v", s.Velocity[0])
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"rk4", "*integrators.RK4"},
		{"RK4", "*integrators.RK4"},
		{"euler", "*integrators.ExplicitEuler"},
		{"explicit_euler", "*integrators.ExplicitEuler"},
		{"symplectic_euler", "*integrators.SemiImplicitEuler"},
		{" verlet ", "*integrators.VelocityVerlet"},
		{"dopri5", "*integrators.RK45"},
	}

	for _, tt := range tests {
		integ, err := New(tt.name)
		if err != nil {
			t.Errorf("New(%q) failed: %v", tt.name, err)
			continue
		}
		if got := fmt.Sprintf("%T", integ); got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := New("leapfrog"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("expected 5 integrators, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
