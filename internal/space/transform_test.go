package space

import (
	"errors"
	"testing"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRefs() References {
	return References{
		Mode2D: RefPair{
			Origin: Point{World: dynamo.Vec3{-2, 0, 0}, Local: dynamo.Vec3{0, 0, 0}},
			AtUnit: Point{World: dynamo.Vec3{2, 0, 0}, Local: dynamo.Vec3{0.5, 0, 0.5}},
		},
		Mode3D: RefPair{
			Origin: Point{World: dynamo.Vec3{10, 0, 0}, Local: dynamo.Vec3{1, 1, 1}},
			AtUnit: Point{World: dynamo.Vec3{12, 0, 0}, Local: dynamo.Vec3{1.25, 1, 1}},
		},
	}
}

func TestNewDerivesFactors(t *testing.T) {
	tr, err := New(testRefs(), Mode2D)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, tr.Factor(Mode2D, Global), 1e-12)
	assert.InDelta(t, 0.5, tr.Factor(Mode2D, Local), 1e-12)
	assert.InDelta(t, 2.0, tr.Factor(Mode3D, Global), 1e-12)
	assert.InDelta(t, 0.25, tr.Factor(Mode3D, Local), 1e-12)
}

func TestFactorUnknownModeOrFrame(t *testing.T) {
	tr, err := New(UnitReferences(), Mode2D)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Zero(t, tr.Factor(Mode(7), Global))
		assert.Zero(t, tr.Factor(Mode2D, Frame(-1)))
		assert.Zero(t, tr.Factor(Mode(-1), Frame(5)))
	})
	assert.Equal(t, 1.0, tr.Factor(Mode2D, Global))
}

func TestNewRejectsCoincidentReferences(t *testing.T) {
	refs := testRefs()
	refs.Mode3D.AtUnit.Local = refs.Mode3D.Origin.Local

	_, err := New(refs, Mode2D)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynamo.ErrCoincidentReference))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, Mode3D, cfgErr.Mode)
	assert.Equal(t, Local, cfgErr.Frame)
}

func TestScalarConversionFollowsMode(t *testing.T) {
	tr, err := New(testRefs(), Mode2D)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, tr.WorldToCalc(2, Global), 1e-12)
	assert.InDelta(t, 4.0, tr.WorldToCalc(2, Local), 1e-12)
	assert.InDelta(t, 8.0, tr.CalcToWorld(2, Global), 1e-12)

	require.NoError(t, tr.SetMode(Mode3D))
	assert.Equal(t, Mode3D, tr.Mode())
	assert.InDelta(t, 1.0, tr.WorldToCalc(2, Global), 1e-12)
	assert.InDelta(t, 0.5, tr.CalcToWorld(2, Local), 1e-12)
}

func TestVectorRoundTrip(t *testing.T) {
	tr, err := New(testRefs(), Mode2D)
	require.NoError(t, err)

	v := dynamo.Vec3{0.3, -1.2, 4}
	back := tr.WorldToCalcVec(tr.CalcToWorldVec(v, Global), Global)
	assert.True(t, back.ApproxEqualThreshold(v, 1e-12), "got %v", back)
	assert.Equal(t, dynamo.Vec3{1.2, -4.8, 16}, tr.CalcToWorldVec(v, Global))
}

func TestWorldToCalcPosition(t *testing.T) {
	tr, err := New(testRefs(), Mode2D)
	require.NoError(t, err)

	got := tr.WorldToCalcPosition(dynamo.Vec3{2, -4, 7})
	assert.True(t, got.ApproxEqualThreshold(dynamo.Vec3{1, 1, 0}, 1e-12), "2d: got %v", got)

	require.NoError(t, tr.SetMode(Mode3D))
	got = tr.WorldToCalcPosition(dynamo.Vec3{1.5, 0.75, 1})
	assert.True(t, got.ApproxEqualThreshold(dynamo.Vec3{2, 1, 0}, 1e-12), "3d: got %v", got)
}

func TestCalcToLocalCoordinates(t *testing.T) {
	tr, err := New(testRefs(), Mode2D)
	require.NoError(t, err)

	// 2D swaps y/z: calc y drives local z.
	got := tr.CalcToLocalCoordinates(dynamo.Vec3{2, 3, 0})
	assert.True(t, got.ApproxEqualThreshold(dynamo.Vec3{1, 0, 1.5}, 1e-12), "2d: got %v", got)

	require.NoError(t, tr.SetMode(Mode3D))
	got = tr.CalcToLocalCoordinates(dynamo.Vec3{4, 3, 2})
	assert.True(t, got.ApproxEqualThreshold(dynamo.Vec3{2, 1, 1}, 1e-12), "3d: got %v", got)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"2d", Mode2D, false},
		{"3D", Mode3D, false},
		{"3", Mode3D, false},
		{"", Mode2D, false},
		{"4d", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, dynamo.ErrUnknownMode, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUnitReferencesAreIdentity(t *testing.T) {
	tr, err := New(UnitReferences(), Mode3D)
	require.NoError(t, err)
	assert.Equal(t, 1.7, tr.WorldToCalc(1.7, Global))
	assert.Equal(t, 1.7, tr.CalcToWorld(1.7, Local))
}
