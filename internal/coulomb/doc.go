// Package coulomb implements the pairwise electrostatic force engine.
//
// An [Engine] owns an ordered collection of point charges. Each tick it takes
// an immutable [Snapshot] of every charge, asks its [Mover] for a set of
// [Candidates] computed only from that snapshot, and then commits them. No
// charge observes another's partially updated position within a step, so the
// result does not depend on iteration order.
//
// Two movers are provided. [DisplacementMover] moves every eligible charge a
// fixed calc-space distance per second along its net force direction.
// [KineticMover] integrates velocity and position with any
// [dynamo.Integrator], using the snapshot to evaluate accelerations.
//
// The engine is not safe for concurrent use; callers serialize Add, Remove
// and Tick.
package coulomb
