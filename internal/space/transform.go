package space

import (
	"math"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

// Transform is the calc/world conversion for the active mode. Factors are
// world units per calc unit.
type Transform struct {
	refs    References
	mode    Mode
	factors [2][2]float64 // [mode][frame]
}

// New derives the factors of both modes and fails when any reference pair
// collapses to a single point along x.
func New(refs References, mode Mode) (*Transform, error) {
	if mode != Mode2D && mode != Mode3D {
		return nil, dynamo.ErrUnknownMode
	}
	t := &Transform{refs: refs, mode: mode}
	for _, m := range []Mode{Mode2D, Mode3D} {
		if err := t.derive(m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Transform) derive(m Mode) error {
	p := t.refs.pair(m)
	global := math.Abs(p.AtUnit.World[0] - p.Origin.World[0])
	local := math.Abs(p.AtUnit.Local[0] - p.Origin.Local[0])
	if global < minFactor {
		return &ConfigError{Mode: m, Frame: Global, Err: dynamo.ErrCoincidentReference}
	}
	if local < minFactor {
		return &ConfigError{Mode: m, Frame: Local, Err: dynamo.ErrCoincidentReference}
	}
	t.factors[m][Global] = global
	t.factors[m][Local] = local
	return nil
}

func (t *Transform) Mode() Mode { return t.mode }

func (t *Transform) References() References { return t.refs }

// SetMode selects m and re-derives its factors.
func (t *Transform) SetMode(m Mode) error {
	if m != Mode2D && m != Mode3D {
		return dynamo.ErrUnknownMode
	}
	if err := t.derive(m); err != nil {
		return err
	}
	t.mode = m
	return nil
}

// Factor returns world units per calc unit for m and f, or 0 when either is
// unknown.
func (t *Transform) Factor(m Mode, f Frame) float64 {
	if m != Mode2D && m != Mode3D || f != Global && f != Local {
		return 0
	}
	return t.factors[m][f]
}

func (t *Transform) WorldToCalc(d float64, f Frame) float64 {
	return d / t.factors[t.mode][f]
}

func (t *Transform) CalcToWorld(d float64, f Frame) float64 {
	return d * t.factors[t.mode][f]
}

func (t *Transform) WorldToCalcVec(v dynamo.Vec3, f Frame) dynamo.Vec3 {
	return v.Mul(1 / t.factors[t.mode][f])
}

func (t *Transform) CalcToWorldVec(v dynamo.Vec3, f Frame) dynamo.Vec3 {
	return v.Mul(t.factors[t.mode][f])
}

// WorldToCalcPosition returns the per-axis calc-space offset of p from the
// origin. In 2D p is a world position and z is dropped; in 3D p is expressed
// in the origin's parent frame and the local factor applies.
func (t *Transform) WorldToCalcPosition(p dynamo.Vec3) dynamo.Vec3 {
	pair := t.refs.pair(t.mode)
	if t.mode == Mode2D {
		o := pair.Origin.World
		return dynamo.Vec3{
			t.WorldToCalc(math.Abs(o[0]-p[0]), Global),
			t.WorldToCalc(math.Abs(o[1]-p[1]), Global),
			0,
		}
	}
	o := pair.Origin.Local
	return dynamo.Vec3{
		t.WorldToCalc(math.Abs(o[0]-p[0]), Local),
		t.WorldToCalc(math.Abs(o[1]-p[1]), Local),
		t.WorldToCalc(math.Abs(o[2]-p[2]), Local),
	}
}

// CalcToLocalCoordinates maps calc coordinates onto the local frame spanned
// by the reference pair. The 2D scene lies in the x/z plane of its parent,
// so y and z are swapped first.
func (t *Transform) CalcToLocalCoordinates(c dynamo.Vec3) dynamo.Vec3 {
	pair := t.refs.pair(t.mode)
	if t.mode == Mode2D {
		c[1], c[2] = c[2], c[1]
	}
	o, u := pair.Origin.Local, pair.AtUnit.Local
	return dynamo.Vec3{
		o[0] + (u[0]-o[0])*c[0],
		o[1] + (u[1]-o[1])*c[1],
		o[2] + (u[2]-o[2])*c[2],
	}
}
