package coulomb

import (
	"math"

	"github.com/google/uuid"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

const (
	// CoulombConstant is k_e = 1/(4*pi*eps0).
	CoulombConstant = 1 / (4 * math.Pi * VacuumPermittivity)

	VacuumPermittivity = 8.8542e-12

	// NeutralEpsilon is the magnitude below which a charge is treated as
	// neutral: it neither moves nor exerts force.
	NeutralEpsilon = 1e-4

	// ForceEpsilon is the pair force at or below which the term is left out
	// of the direction sum.
	ForceEpsilon = 1e-4

	// DefaultRadius is the particle radius in world units. Twice the radius
	// is subtracted from center distances to approximate surface distance.
	DefaultRadius = 0.71

	DefaultMaxCharges = 10

	directionEpsilon = 1e-5
	pairEpsilon      = 1e-12
)

type Charge struct {
	ID       uuid.UUID
	Position dynamo.Vec3
	Charge   float64
	Fixed    bool
	Active   bool
}

// NewCharge returns an active charge with a fresh identity.
func NewCharge(pos dynamo.Vec3, q float64, fixed bool) *Charge {
	return &Charge{
		ID:       uuid.New(),
		Position: pos,
		Charge:   q,
		Fixed:    fixed,
		Active:   true,
	}
}

func (c *Charge) State() ChargeState {
	return ChargeState{
		ID:       c.ID,
		Position: c.Position,
		Charge:   c.Charge,
		Fixed:    c.Fixed,
		Active:   c.Active,
	}
}

// ChargeState is a value copy of a charge taken at the start of a step.
type ChargeState struct {
	ID       uuid.UUID
	Position dynamo.Vec3
	Charge   float64
	Fixed    bool
	Active   bool
}

func (c ChargeState) Neutral() bool {
	return math.Abs(c.Charge) < NeutralEpsilon
}

// Source reports whether the charge exerts force on others.
func (c ChargeState) Source() bool {
	return c.Active && !c.Neutral()
}

// Movable reports whether the engine may move the charge.
func (c ChargeState) Movable() bool {
	return c.Source() && !c.Fixed
}

// unit normalizes v, returning zero for vectors too short to have a
// meaningful direction.
func unit(v dynamo.Vec3) dynamo.Vec3 {
	l := v.Len()
	if l < directionEpsilon {
		return dynamo.Vec3{}
	}
	return v.Mul(1 / l)
}
