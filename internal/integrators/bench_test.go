package integrators

import (
	"testing"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{}, 0, spring)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(s, 0, 0.01)
	}
}

func BenchmarkExplicitEuler(b *testing.B)     { benchmarkIntegrator(b, NewExplicitEuler()) }
func BenchmarkSemiImplicitEuler(b *testing.B) { benchmarkIntegrator(b, NewSemiImplicitEuler()) }
func BenchmarkRK4(b *testing.B)               { benchmarkIntegrator(b, NewRK4()) }
func BenchmarkRK45(b *testing.B)              { benchmarkIntegrator(b, NewRK45()) }
func BenchmarkVelocityVerlet(b *testing.B)    { benchmarkIntegrator(b, NewVelocityVerlet()) }

func BenchmarkRK4_Pairwise5(b *testing.B) {
	others := []dynamo.Vec3{{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}, {0, -1, 0}}
	fn := func(pos, vel dynamo.Vec3, t float64) dynamo.Vec3 {
		var a dynamo.Vec3
		for _, o := range others {
			d := pos.Sub(o)
			r := d.Len() + 0.1
			a = a.Add(d.Mul(1 / (r * r * r)))
		}
		return a
	}
	integ := NewRK4()
	s := dynamo.NewMotionState(dynamo.Vec3{0.1, 0.2, 0}, dynamo.Vec3{}, 0, fn)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(s, 0, 0.001)
	}
}
