// Package automation runs scripted sequences of simulations: YAML
// scenarios, one-parameter sweeps and Monte Carlo perturbation trials.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/coulombsim/internal/config"
	"github.com/san-kum/coulombsim/internal/experiment"
	"github.com/san-kum/coulombsim/internal/sim"
	"github.com/san-kum/coulombsim/internal/space"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset or a config file and overrides any
// field that is set.
type ScenarioStep struct {
	Preset     string                `yaml:"preset"`
	Config     string                `yaml:"config"`
	Integrator string                `yaml:"integrator"`
	Mode       string                `yaml:"mode"`
	Duration   float64               `yaml:"duration"`
	Dt         float64               `yaml:"dt"`
	Charges    []config.ChargeConfig `yaml:"charges"`
	Params     map[string]float64    `yaml:"params"`
	SaveAs     string                `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Label names the step for logs and saved runs.
func (s ScenarioStep) Label(i int) string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	default:
		return fmt.Sprintf("step%d", i+1)
	}
}

// Resolve builds the run configuration for the step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if len(s.Charges) > 0 {
		cfg.Charges = append([]config.ChargeConfig(nil), s.Charges...)
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in a scenario. Results of the steps that
// finished are returned along with the first error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *zap.Logger) ([]*sim.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("label", step.Label(i)))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, registry, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep runs Base once per evenly spaced value of Param.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Value   float64
	Steps   int
	Metrics map[string]float64
	Errors  int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, val); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg, registry, logger)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Value:   val,
			Steps:   result.StepsTaken,
			Metrics: result.Metrics,
			Errors:  len(result.Errors),
		})

		logger.Debug("sweep point",
			zap.Int("index", i+1),
			zap.String("param", sweep.Param),
			zap.Float64("value", val))
	}

	return results, nil
}

// MonteCarloConfig jitters every movable charge of Base by up to
// Perturbation world units on each axis the mode uses.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	// Limit is the position magnitude past which a trial counts as
	// unstable.
	Limit float64
	// Workers bounds concurrent trials; 0 means GOMAXPROCS.
	Workers int
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID       int
	MinSeparation float64
	Stable        bool
}

// RunMonteCarlo executes multiple trials with random perturbations. Trials
// run concurrently; the perturbations depend only on Seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, logger *zap.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 1e3
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	mode, err := space.ParseMode(cfg.Base.Mode)
	if err != nil {
		return nil, err
	}
	axes := 2
	if mode == space.Mode3D {
		axes = 3
	}

	runs := make([]*config.Config, cfg.NumTrials)
	for trial := range runs {
		run := cfg.Base.Clone()
		for i := range run.Charges {
			if run.Charges[i].Fixed {
				continue
			}
			for a := 0; a < axes; a++ {
				run.Charges[i].Position[a] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
		}
		runs[trial] = run
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial, run := range runs {
		g.Go(func() error {
			exp, err := experiment.New(run, registry, logger)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			result, err := exp.Run(gctx)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			stable := len(result.Errors) == 0
			if n := len(result.Frames); n > 0 {
				for _, p := range result.Frames[n-1].Positions {
					if math.IsNaN(p.Len()) || p.Len() > limit {
						stable = false
						break
					}
				}
			}

			results[trial] = MonteCarloResult{
				TrialID:       trial,
				MinSeparation: result.Metrics["min_separation"],
				Stable:        stable,
			}

			if n := done.Add(1); n%10 == 0 {
				logger.Info("monte carlo progress", zap.Int64("done", n), zap.Int("trials", cfg.NumTrials))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
