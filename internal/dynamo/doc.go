// Package dynamo provides core simulation primitives for the Coulomb simulation.
//
// The package defines the types shared by the integrators, the force engine
// and the simulation clock:
//
//   - [Vec3]: three component vector used for every position and force
//   - [MotionState]: second-order kinematic state with an injected
//     acceleration evaluator
//   - [Integrator]: advances a [MotionState] by one time step
//   - [Frame]: positions of all charges recorded at one tick
//   - [Metric] and [Observer]: consumers of recorded frames
//
// # Example
//
//	integ, _ := integrators.New("rk4")
//	s := dynamo.NewMotionState(dynamo.Vec3{1, 0, 0}, dynamo.Vec3{}, 0, spring)
//	for i := 0; i < steps; i++ {
//		integ.Integrate(s, float64(i)*dt, dt)
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A MotionState belongs
// to the goroutine integrating it.
package dynamo
