package metrics

import (
	"math"

	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

// PotentialEnergy is the pairwise electrostatic energy k*qi*qj/r of the last
// observed frame, with distances measured in calc space.
type PotentialEnergy struct {
	name      string
	transform *space.Transform
	energy    float64
	samples   int
}

func NewPotentialEnergy(tr *space.Transform) *PotentialEnergy {
	return &PotentialEnergy{
		name:      "potential_energy",
		transform: tr,
	}
}

func (p *PotentialEnergy) Name() string { return p.name }

func (p *PotentialEnergy) Observe(f dynamo.Frame) {
	p.energy = FrameEnergy(p.transform, f)
	p.samples++
}

func (p *PotentialEnergy) Value() float64 { return p.energy }

func (p *PotentialEnergy) Reset() {
	p.energy = 0
	p.samples = 0
}

// FrameEnergy sums k*qi*qj/r over every pair of non-neutral charges in f.
// Coincident pairs contribute nothing.
func FrameEnergy(tr *space.Transform, f dynamo.Frame) float64 {
	var total float64
	for i := 0; i < len(f.Positions); i++ {
		if math.Abs(f.Charges[i]) < coulomb.NeutralEpsilon {
			continue
		}
		for j := i + 1; j < len(f.Positions); j++ {
			if math.Abs(f.Charges[j]) < coulomb.NeutralEpsilon {
				continue
			}
			r := tr.WorldToCalc(f.Positions[i].Sub(f.Positions[j]).Len(), space.Global)
			if r < 1e-12 {
				continue
			}
			total += coulomb.CoulombConstant * f.Charges[i] * f.Charges[j] / r
		}
	}
	return total
}

// HarmonicEnergy is the energy of a one-dimensional oscillator with spring
// constant k and mass m, read from the x components of s.
func HarmonicEnergy(s *dynamo.MotionState, k, m float64) float64 {
	x, v := s.Position[0], s.Velocity[0]
	return 0.5*m*v*v + 0.5*k*x*x
}

// DriftTracker records the maximum relative drift of an energy series from
// its first sample.
type DriftTracker struct {
	name          string
	energy        func(dynamo.Frame) float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

// NewDriftTracker tracks energy(frame) when used as a Metric. energy may be
// nil when samples are fed through Track.
func NewDriftTracker(name string, energy func(dynamo.Frame) float64) *DriftTracker {
	return &DriftTracker{
		name:   name,
		energy: energy,
	}
}

func (d *DriftTracker) Name() string { return d.name }

func (d *DriftTracker) Observe(f dynamo.Frame) {
	if d.energy == nil {
		return
	}
	d.Track(d.energy(f))
}

func (d *DriftTracker) Track(energy float64) {
	if d.samples == 0 {
		d.initialEnergy = energy
	}

	d.currentEnergy = energy
	d.samples++

	if d.initialEnergy != 0 {
		drift := math.Abs(energy-d.initialEnergy) / math.Abs(d.initialEnergy)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *DriftTracker) Current() float64 { return d.currentEnergy }

func (d *DriftTracker) Value() float64 {
	return d.maxDrift
}

func (d *DriftTracker) Reset() {
	d.initialEnergy = 0
	d.currentEnergy = 0
	d.maxDrift = 0
	d.samples = 0
}
