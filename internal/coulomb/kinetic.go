package coulomb

import (
	"github.com/google/uuid"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

const (
	DefaultMass       = 1.0
	DefaultForceScale = 1e-9
	DefaultSoftening  = 0.05
)

// KineticMover integrates each movable charge as a body of Mass under the
// scaled Coulomb force of every other source. Velocities and cached
// accelerations persist across steps.
type KineticMover struct {
	Integrator dynamo.Integrator
	Mass       float64
	// ForceScale multiplies k_e so SI-sized constants give usable
	// accelerations for unit charges.
	ForceScale float64
	// Softening is the smallest calc-space surface distance used in the
	// force law.
	Softening float64

	states map[uuid.UUID]*dynamo.MotionState
	time   float64
}

func NewKineticMover(integ dynamo.Integrator) *KineticMover {
	return &KineticMover{
		Integrator: integ,
		Mass:       DefaultMass,
		ForceScale: DefaultForceScale,
		Softening:  DefaultSoftening,
		states:     make(map[uuid.UUID]*dynamo.MotionState),
	}
}

// Velocity returns the carried velocity of id in world units per second.
func (k *KineticMover) Velocity(id uuid.UUID) (dynamo.Vec3, bool) {
	s, ok := k.states[id]
	if !ok {
		return dynamo.Vec3{}, false
	}
	return s.Velocity, true
}

// Reset drops every carried velocity and restarts the clock.
func (k *KineticMover) Reset() {
	k.states = make(map[uuid.UUID]*dynamo.MotionState)
	k.time = 0
}

func (k *KineticMover) Candidates(snap *Snapshot, dt float64) Candidates {
	if k.states == nil {
		k.states = make(map[uuid.UUID]*dynamo.MotionState)
	}

	live := make(map[uuid.UUID]struct{}, len(snap.Charges))
	out := make(Candidates, 0, len(snap.Charges))

	for i, c := range snap.Charges {
		if !c.Movable() {
			continue
		}
		live[c.ID] = struct{}{}

		fn := k.accelerationFor(snap, i)
		st, ok := k.states[c.ID]
		if !ok {
			st = dynamo.NewMotionState(c.Position, dynamo.Vec3{}, k.time, fn)
			k.states[c.ID] = st
		} else {
			// positions may have been moved externally between steps
			st.Position = c.Position
			st.SetAccelerationFunc(fn)
		}

		k.Integrator.Integrate(st, k.time, dt)

		direction, net := snap.accumulate(i, c.Position)
		out = append(out, Candidate{
			ID:        c.ID,
			From:      c.Position,
			To:        st.Position,
			Direction: unit(direction),
			NetForce:  net,
		})
	}

	for id := range k.states {
		if _, ok := live[id]; !ok {
			delete(k.states, id)
		}
	}
	k.time += dt
	return out
}

func (k *KineticMover) accelerationFor(snap *Snapshot, i int) dynamo.AccelerationFunc {
	mass := k.Mass
	if mass <= 0 {
		mass = DefaultMass
	}
	scale := k.ForceScale / mass
	qi := snap.Charges[i].Charge

	return func(pos, vel dynamo.Vec3, t float64) dynamo.Vec3 {
		var a dynamo.Vec3
		for j, cj := range snap.Charges {
			if j == i || !cj.Source() {
				continue
			}
			force, delta, ok := snap.pair(pos, qi, cj.Position, cj.Charge, k.Softening)
			if !ok {
				continue
			}
			a = a.Add(unit(delta).Mul(force * scale))
		}
		return snap.transform.CalcToWorldVec(a, space.Global)
	}
}
