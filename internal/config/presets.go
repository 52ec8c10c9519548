package config

import (
	"sort"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"dipole": withCharges(
		ChargeConfig{Position: dynamo.Vec3{-2, 0, 0}, Charge: 1},
		ChargeConfig{Position: dynamo.Vec3{2, 0, 0}, Charge: -1},
	),
	"repel": withCharges(
		ChargeConfig{Position: dynamo.Vec3{-1, 0, 0}, Charge: 1},
		ChargeConfig{Position: dynamo.Vec3{1, 0, 0}, Charge: 1},
	),
	"triangle": withCharges(
		ChargeConfig{Position: dynamo.Vec3{0, 3, 0}, Charge: 1},
		ChargeConfig{Position: dynamo.Vec3{-2.6, -1.5, 0}, Charge: 1},
		ChargeConfig{Position: dynamo.Vec3{2.6, -1.5, 0}, Charge: -1},
	),
	"anchored": withCharges(
		ChargeConfig{Position: dynamo.Vec3{0, 0, 0}, Charge: 2, Fixed: true},
		ChargeConfig{Position: dynamo.Vec3{3, 0, 0}, Charge: -1},
		ChargeConfig{Position: dynamo.Vec3{-3, 0, 0}, Charge: -1},
		ChargeConfig{Position: dynamo.Vec3{0, 3, 0}, Charge: 1},
	),
	"neutral": withCharges(
		ChargeConfig{Position: dynamo.Vec3{-2, 0, 0}, Charge: 1},
		ChargeConfig{Position: dynamo.Vec3{0, 0, 0}, Charge: 0},
		ChargeConfig{Position: dynamo.Vec3{2, 0, 0}, Charge: 1},
	),
	"kinetic": func() *Config {
		cfg := withCharges(
			ChargeConfig{Position: dynamo.Vec3{0, 0, 0}, Charge: 1, Fixed: true},
			ChargeConfig{Position: dynamo.Vec3{4, 0, 0}, Charge: -1},
		)
		cfg.Integrator = "velocity_verlet"
		cfg.Duration = 20
		return cfg
	}(),
}

func withCharges(charges ...ChargeConfig) *Config {
	cfg := DefaultConfig()
	cfg.Charges = charges
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
