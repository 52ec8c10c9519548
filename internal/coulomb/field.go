package coulomb

import (
	"fmt"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

const fieldEpsilon = 1e-9

// FieldVector returns the electric field at p from every active, non-neutral
// charge. Distances are measured in calc space; the direction is the world
// direction from each source to p.
func (e *Engine) FieldVector(p dynamo.Vec3) dynamo.Vec3 {
	var field dynamo.Vec3
	for _, c := range e.charges {
		s := c.State()
		if !s.Source() {
			continue
		}
		d := p.Sub(s.Position)
		r := e.transform.WorldToCalc(d.Len(), space.Global)
		if r < fieldEpsilon {
			continue
		}
		field = field.Add(unit(d).Mul(CoulombConstant * s.Charge / (r * r)))
	}
	return field
}

func (e *Engine) FieldStrength(p dynamo.Vec3) float64 {
	return e.FieldVector(p).Len()
}

// Potential returns the electric potential at p in volts.
func (e *Engine) Potential(p dynamo.Vec3) float64 {
	v := 0.0
	for _, c := range e.charges {
		s := c.State()
		if !s.Source() {
			continue
		}
		r := e.transform.WorldToCalc(p.Sub(s.Position).Len(), space.Global)
		if r < fieldEpsilon {
			continue
		}
		v += CoulombConstant * s.Charge / r
	}
	return v
}

// VoltmeterReading formats the potential at p the way the probe displays
// it, scaled by 1e-5, or "---" when nothing is charged.
func (e *Engine) VoltmeterReading(p dynamo.Vec3) string {
	for _, c := range e.charges {
		if c.State().Source() {
			return fmt.Sprintf("%.3f V", e.Potential(p)*1e-5)
		}
	}
	return "---"
}
