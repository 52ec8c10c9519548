package sim

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
)

// Simulator is the fixed-time-step clock around an engine. It opens the
// engine's running gate for the duration of a run and closes it on return.
type Simulator struct {
	engine    *coulomb.Engine
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *zap.Logger
}

func New(engine *coulomb.Engine, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		engine:    engine,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) Engine() *coulomb.Engine       { return s.engine }
func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	charges := s.engine.Charges()
	result := &Result{
		IDs:     make([]uuid.UUID, len(charges)),
		Frames:  make([]dynamo.Frame, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for i, c := range charges {
		result.IDs[i] = c.ID
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("simulation started",
		zap.Int("charges", len(charges)),
		zap.Float64("dt", cfg.Dt),
		zap.Int("steps", steps))

	s.engine.SetRunning(true)
	defer s.engine.SetRunning(false)

	t := 0.0
	frame := s.engine.Frame(0, t)
	s.observe(frame)
	result.Frames = append(result.Frames, frame)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.logger.Warn("simulation canceled", zap.Int("step", i))
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if _, stepped := s.engine.Tick(cfg.Dt); !stepped {
			break
		}
		t += cfg.Dt
		frame = s.engine.Frame(i+1, t)

		if cfg.ValidateState && !frame.IsValid() {
			err := dynamo.SimError{Time: t, Step: i + 1, Message: "invalid position (NaN/Inf)", Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.logger.Error("simulation diverged", zap.Error(err))
			break
		}

		result.StepsTaken++
		s.observe(frame)
		result.Frames = append(result.Frames, frame)
	}

	s.finish(result)
	s.logger.Info("simulation finished", zap.Int("steps", result.StepsTaken))
	return result, nil
}

func (s *Simulator) observe(f dynamo.Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback ticks until the duration elapses or the callback returns
// false. The callback sees every frame, including the initial one.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(dynamo.Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	s.engine.SetRunning(true)
	defer s.engine.SetRunning(false)

	t := 0.0
	for step := 0; t < cfg.Duration; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := s.engine.Frame(step, t)
		if !callback(frame) {
			return nil
		}

		s.engine.Tick(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !s.engine.Frame(step+1, t).IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
	}

	return nil
}
