package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

const (
	DefaultDt               = 0.016
	DefaultDuration         = 5.0
	DefaultMaxCharges       = coulomb.DefaultMaxCharges
	DefaultRadius           = coulomb.DefaultRadius
	DefaultCorrectionFactor = 1.0
	DefaultMass             = coulomb.DefaultMass
	DefaultForceScale       = coulomb.DefaultForceScale
	DefaultSoftening        = coulomb.DefaultSoftening
)

// DisplacementMover selects the direction-of-force stepper instead of an
// integrator-driven one.
const DisplacementMover = "displacement"

type Config struct {
	Mode             string           `yaml:"mode" toml:"mode"`
	Integrator       string           `yaml:"integrator" toml:"integrator"`
	Dt               float64          `yaml:"dt" toml:"dt"`
	Duration         float64          `yaml:"duration" toml:"duration"`
	MaxCharges       int              `yaml:"max_charges" toml:"max_charges"`
	CorrectionFactor float64          `yaml:"correction_factor" toml:"correction_factor"`
	Radius           float64          `yaml:"radius" toml:"radius"`
	References       space.References `yaml:"references" toml:"references"`
	Charges          []ChargeConfig   `yaml:"charges" toml:"charges"`
	Kinetic          KineticConfig    `yaml:"kinetic" toml:"kinetic"`
	Bounds           *BoundsConfig    `yaml:"bounds,omitempty" toml:"bounds,omitempty"`
	Log              LogConfig        `yaml:"log" toml:"log"`
}

type ChargeConfig struct {
	Position dynamo.Vec3 `yaml:"position" toml:"position"`
	Charge   float64     `yaml:"charge" toml:"charge"`
	Fixed    bool        `yaml:"fixed" toml:"fixed"`
}

// KineticConfig parameterizes the integrator-driven mover.
type KineticConfig struct {
	Mass       float64 `yaml:"mass" toml:"mass"`
	ForceScale float64 `yaml:"force_scale" toml:"force_scale"`
	Softening  float64 `yaml:"softening" toml:"softening"`
}

type BoundsConfig struct {
	Min dynamo.Vec3 `yaml:"min" toml:"min"`
	Max dynamo.Vec3 `yaml:"max" toml:"max"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:             space.Mode2D.String(),
		Integrator:       DisplacementMover,
		Dt:               DefaultDt,
		Duration:         DefaultDuration,
		MaxCharges:       DefaultMaxCharges,
		CorrectionFactor: DefaultCorrectionFactor,
		Radius:           DefaultRadius,
		References:       space.UnitReferences(),
		Kinetic: KineticConfig{
			Mass:       DefaultMass,
			ForceScale: DefaultForceScale,
			Softening:  DefaultSoftening,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file, or TOML when the extension is .toml, on top of the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.MaxCharges <= 0 {
		return fmt.Errorf("max_charges must be positive, got %d", c.MaxCharges)
	}
	if len(c.Charges) > c.MaxCharges {
		return fmt.Errorf("%d charges configured: %w", len(c.Charges), dynamo.ErrCapacityExceeded)
	}
	if _, err := space.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Kinetic.Mass <= 0 {
		return fmt.Errorf("kinetic mass must be positive, got %f", c.Kinetic.Mass)
	}
	return nil
}

// UsesIntegrator reports whether charges are driven by a named integrator
// rather than the displacement stepper.
func (c *Config) UsesIntegrator() bool {
	name := strings.ToLower(strings.TrimSpace(c.Integrator))
	return name != "" && name != DisplacementMover
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Charges = append([]ChargeConfig(nil), c.Charges...)
	if c.Bounds != nil {
		b := *c.Bounds
		out.Bounds = &b
	}
	return &out
}

// Tunable lists the parameter names SetParam accepts.
var Tunable = []string{"correction_factor", "dt", "duration", "force_scale", "mass", "radius", "softening"}

// SetParam sets a scalar parameter by its config key.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "correction_factor":
		c.CorrectionFactor = v
	case "radius":
		c.Radius = v
	case "mass":
		c.Kinetic.Mass = v
	case "force_scale":
		c.Kinetic.ForceScale = v
	case "softening":
		c.Kinetic.Softening = v
	default:
		return fmt.Errorf("unknown parameter %q (tunable: %v)", name, Tunable)
	}
	return nil
}
