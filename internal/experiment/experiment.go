// Package experiment assembles a transform, an engine, its mover and a
// simulator from a run configuration.
package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/coulombsim/internal/config"
	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/sim"
	"github.com/san-kum/coulombsim/internal/space"
)

type Experiment struct {
	cfg       *config.Config
	transform *space.Transform
	engine    *coulomb.Engine
	simulator *sim.Simulator
	logger    *zap.Logger
}

// New builds a stopped engine holding cfg's charges, with the default
// metrics attached to its simulator.
func New(cfg *config.Config, registry *Registry, logger *zap.Logger) (*Experiment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mode, err := space.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	tr, err := space.New(cfg.References, mode)
	if err != nil {
		return nil, fmt.Errorf("build transform: %w", err)
	}

	mover, err := registry.GetMover(cfg.Integrator, cfg.Kinetic)
	if err != nil {
		return nil, err
	}

	opts := []coulomb.Option{
		coulomb.WithMaxCharges(cfg.MaxCharges),
		coulomb.WithRadius(cfg.Radius),
		coulomb.WithCorrectionFactor(cfg.CorrectionFactor),
		coulomb.WithMover(mover),
		coulomb.WithLogger(logger.Named("engine")),
	}
	if cfg.Bounds != nil {
		opts = append(opts, coulomb.WithBounds(coulomb.Bounds{Min: cfg.Bounds.Min, Max: cfg.Bounds.Max}))
	}
	engine := coulomb.New(tr, opts...)

	e := &Experiment{
		cfg:       cfg,
		transform: tr,
		engine:    engine,
		simulator: sim.New(engine, logger.Named("sim")),
		logger:    logger,
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	for _, m := range registry.DefaultMetrics(tr) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) load() error {
	for i, cc := range e.cfg.Charges {
		if err := e.engine.Add(coulomb.NewCharge(cc.Position, cc.Charge, cc.Fixed)); err != nil {
			return fmt.Errorf("charge %d: %w", i, err)
		}
	}
	return nil
}

// Reset removes every charge, clears any carried mover state and loads the
// configured charges again.
func (e *Experiment) Reset() error {
	e.engine.SetRunning(false)
	e.engine.RemoveAll()
	if k, ok := e.engine.Mover().(*coulomb.KineticMover); ok {
		k.Reset()
	}
	return e.load()
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	})
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) Engine() *coulomb.Engine     { return e.engine }
func (e *Experiment) Transform() *space.Transform { return e.transform }
func (e *Experiment) Simulator() *sim.Simulator   { return e.simulator }
