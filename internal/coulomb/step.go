package coulomb

import (
	"math"

	"github.com/google/uuid"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

// Snapshot is the start-of-step view every candidate is computed from.
// Charges must not be modified by movers.
type Snapshot struct {
	Charges []ChargeState

	transform  *space.Transform
	radius     float64
	correction float64
}

func (s *Snapshot) Transform() *space.Transform { return s.transform }

// parallelChunk is the smallest number of charges handed to one worker.
const parallelChunk = 32

// Candidate is the proposed new position of one movable charge.
type Candidate struct {
	ID   uuid.UUID
	From dynamo.Vec3
	To   dynamo.Vec3
	// Direction is the sum of unit pair directions weighted by pair force.
	Direction dynamo.Vec3
	// NetForce is the sum of unnormalized world deltas weighted by pair
	// force, kept for field-strength reporting.
	NetForce dynamo.Vec3
}

type Candidates []Candidate

// Update is a committed position change.
type Update struct {
	ID   uuid.UUID
	From dynamo.Vec3
	To   dynamo.Vec3
}

// Mover turns a snapshot into candidates. Implementations must only read
// the snapshot.
type Mover interface {
	Candidates(snap *Snapshot, dt float64) Candidates
}

// pair returns the Coulomb force magnitude between a charge qi at pi and a
// source qj at pj, and the world-space delta pointing the way the force
// pushes the first charge. Surface distance below softening is clamped to
// softening; ok is false for degenerate pairs.
func (s *Snapshot) pair(pi dynamo.Vec3, qi float64, pj dynamo.Vec3, qj float64, softening float64) (force float64, delta dynamo.Vec3, ok bool) {
	tr := s.transform
	r := tr.WorldToCalc(pi.Sub(pj).Len(), space.Global)
	r -= 2 * tr.WorldToCalc(s.radius, space.Global)
	if softening > 0 && r < softening {
		r = softening
	}
	if math.Abs(r) < pairEpsilon {
		return 0, dynamo.Vec3{}, false
	}

	if (qi < 0) == (qj < 0) {
		delta = pi.Sub(pj)
	} else {
		delta = pj.Sub(pi)
	}

	force = CoulombConstant * math.Abs(qi) * math.Abs(qj) / (r * r)
	return force, delta, true
}

// accumulate sums the pair terms acting on charge i placed at p.
func (s *Snapshot) accumulate(i int, p dynamo.Vec3) (direction, netForce dynamo.Vec3) {
	ci := s.Charges[i]
	for j, cj := range s.Charges {
		if i == j || !cj.Source() {
			continue
		}
		force, delta, ok := s.pair(p, ci.Charge, cj.Position, cj.Charge, 0)
		if !ok {
			continue
		}
		netForce = netForce.Add(delta.Mul(force))
		if force > ForceEpsilon {
			direction = direction.Add(unit(delta).Mul(force))
		}
	}
	return direction, netForce
}

// NetForce returns the raw force-weighted sum acting on the charge with id,
// or false when it is not in the snapshot.
func (s *Snapshot) NetForce(id uuid.UUID) (dynamo.Vec3, bool) {
	for i, c := range s.Charges {
		if c.ID == id {
			_, net := s.accumulate(i, c.Position)
			return net, true
		}
	}
	return dynamo.Vec3{}, false
}

func (s *Snapshot) corrected(v dynamo.Vec3) dynamo.Vec3 {
	if math.Abs(s.correction-1) > 1e-10 {
		return v.Mul(s.correction)
	}
	return v
}

// DisplacementMover moves each movable charge by dt calc units along its
// net force direction, regardless of force magnitude.
type DisplacementMover struct{}

func (DisplacementMover) Candidates(snap *Snapshot, dt float64) Candidates {
	slots := make([]Candidate, len(snap.Charges))
	dynamo.ParallelFor(len(snap.Charges), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			c := snap.Charges[i]
			if !c.Movable() {
				continue
			}
			direction, net := snap.accumulate(i, c.Position)

			step := unit(direction).Mul(dt)
			step = snap.transform.CalcToWorldVec(step, space.Global)
			step = snap.corrected(step)

			slots[i] = Candidate{
				ID:        c.ID,
				From:      c.Position,
				To:        c.Position.Add(step),
				Direction: unit(direction),
				NetForce:  net,
			}
		}
	})

	out := make(Candidates, 0, len(slots))
	for i, c := range snap.Charges {
		if c.Movable() {
			out = append(out, slots[i])
		}
	}
	return out
}
