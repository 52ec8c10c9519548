package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/coulombsim/internal/config"
	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/integrators"
	"github.com/san-kum/coulombsim/internal/metrics"
	"github.com/san-kum/coulombsim/internal/space"
)

// Registry maps mover names to constructors. Every integrator name is a
// mover: it drives a KineticMover.
type Registry struct {
	movers map[string]func(config.KineticConfig) (coulomb.Mover, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		movers: make(map[string]func(config.KineticConfig) (coulomb.Mover, error)),
	}

	r.movers[config.DisplacementMover] = func(config.KineticConfig) (coulomb.Mover, error) {
		return coulomb.DisplacementMover{}, nil
	}
	for _, name := range integrators.Names() {
		name := name
		r.movers[name] = func(kc config.KineticConfig) (coulomb.Mover, error) {
			return newKinetic(name, kc)
		}
	}

	return r
}

func newKinetic(name string, kc config.KineticConfig) (coulomb.Mover, error) {
	integ, err := integrators.New(name)
	if err != nil {
		return nil, err
	}
	m := coulomb.NewKineticMover(integ)
	m.Mass = kc.Mass
	m.ForceScale = kc.ForceScale
	m.Softening = kc.Softening
	return m, nil
}

// GetMover resolves name, including integrator aliases. An empty name is the
// displacement stepper.
func (r *Registry) GetMover(name string, kc config.KineticConfig) (coulomb.Mover, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = config.DisplacementMover
	}
	if fn, ok := r.movers[key]; ok {
		return fn(kc)
	}
	m, err := newKinetic(key, kc)
	if err != nil {
		return nil, fmt.Errorf("unknown mover %q: %w", name, err)
	}
	return m, nil
}

func (r *Registry) ListMovers() []string {
	names := make([]string, 0, len(r.movers))
	for name := range r.movers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(tr *space.Transform) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewMinSeparation(),
		metrics.NewPotentialEnergy(tr),
		metrics.NewPathLength(),
		metrics.NewDriftTracker("energy_drift", func(f dynamo.Frame) float64 {
			return metrics.FrameEnergy(tr, f)
		}),
		metrics.NewStability(1e3),
	}
}
