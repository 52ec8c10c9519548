package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/coulombsim/internal/config"
	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/integrators"
)

func TestNewLoadsCharges(t *testing.T) {
	cfg := config.GetPreset("anchored")
	exp, err := New(cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, len(cfg.Charges), exp.Engine().Len())
	assert.False(t, exp.Engine().Running())
	assert.IsType(t, coulomb.DisplacementMover{}, exp.Engine().Mover())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Integrator = "leapfrog"
	_, err = New(cfg, nil, nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownIntegrator))
}

func TestRunDipole(t *testing.T) {
	cfg := config.GetPreset("dipole")
	cfg.Duration = 0.16

	exp, err := New(cfg, nil, nil)
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.StepsTaken)
	sep := result.Separation(0, 1)
	assert.Less(t, sep[len(sep)-1], sep[0])

	for _, name := range []string{"min_separation", "potential_energy", "path_length", "energy_drift", "stability"} {
		assert.Contains(t, result.Metrics, name)
	}
	assert.InDelta(t, 0.16*2, result.Metrics["path_length"], 1e-9)
	assert.Less(t, result.Metrics["potential_energy"], 0.0)
}

func TestReset(t *testing.T) {
	cfg := config.GetPreset("dipole")
	exp, err := New(cfg, nil, nil)
	require.NoError(t, err)

	before := exp.Engine().Charges()[0].Position
	_, err = exp.Run(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, before, exp.Engine().Charges()[0].Position)

	require.NoError(t, exp.Reset())
	assert.Equal(t, 2, exp.Engine().Len())
	assert.Equal(t, before, exp.Engine().Charges()[0].Position)
}

func TestRegistryMovers(t *testing.T) {
	r := NewRegistry()
	kc := config.DefaultConfig().Kinetic

	names := r.ListMovers()
	assert.Contains(t, names, config.DisplacementMover)
	for _, name := range integrators.Names() {
		assert.Contains(t, names, name)
	}

	m, err := r.GetMover("", kc)
	require.NoError(t, err)
	assert.IsType(t, coulomb.DisplacementMover{}, m)

	m, err = r.GetMover("Verlet", kc)
	require.NoError(t, err)
	k, ok := m.(*coulomb.KineticMover)
	require.True(t, ok)
	assert.IsType(t, &integrators.VelocityVerlet{}, k.Integrator)
	assert.Equal(t, kc.ForceScale, k.ForceScale)

	_, err = r.GetMover("nope", kc)
	assert.ErrorIs(t, err, dynamo.ErrUnknownIntegrator)
}

func TestKineticPresetRuns(t *testing.T) {
	cfg := config.GetPreset("kinetic")
	cfg.Duration = 1

	exp, err := New(cfg, nil, nil)
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	// the fixed charge never moves
	xs := result.Series(0, 0)
	assert.Equal(t, xs[0], xs[len(xs)-1])
}
