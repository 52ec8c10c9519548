// Package space converts distances and positions between the normalized
// calculation space used by the force law and the world coordinates of the
// hosting scene.
//
// The scale is derived from two reference points per mode: an origin and a
// point one calculation unit away along x. Each point is known both in world
// coordinates and in the local frame of its parent, giving four factors:
// {2D, 3D} x {global, local}.
package space

import (
	"fmt"
	"strings"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

type Mode int

const (
	Mode2D Mode = iota
	Mode3D
)

func (m Mode) String() string {
	switch m {
	case Mode2D:
		return "2d"
	case Mode3D:
		return "3d"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d", "2", "":
		return Mode2D, nil
	case "3d", "3":
		return Mode3D, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, s)
}

type Frame int

const (
	Global Frame = iota
	Local
)

func (f Frame) String() string {
	if f == Local {
		return "local"
	}
	return "global"
}

// Point is one reference location known in both frames.
type Point struct {
	World dynamo.Vec3 `yaml:"world" toml:"world"`
	Local dynamo.Vec3 `yaml:"local" toml:"local"`
}

type RefPair struct {
	Origin Point `yaml:"origin" toml:"origin"`
	AtUnit Point `yaml:"at_unit" toml:"at_unit"`
}

type References struct {
	Mode2D RefPair `yaml:"mode_2d" toml:"mode_2d"`
	Mode3D RefPair `yaml:"mode_3d" toml:"mode_3d"`
}

// UnitReferences places both origins at zero and the unit points one world
// unit along x, so calc space and world space coincide.
func UnitReferences() References {
	pair := RefPair{
		AtUnit: Point{World: dynamo.Vec3{1, 0, 0}, Local: dynamo.Vec3{1, 0, 0}},
	}
	return References{Mode2D: pair, Mode3D: pair}
}

func (r References) pair(m Mode) RefPair {
	if m == Mode3D {
		return r.Mode3D
	}
	return r.Mode2D
}

// ConfigError reports a reference pair whose scale cannot be derived.
type ConfigError struct {
	Mode  Mode
	Frame Frame
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("space: %s %s reference: %v", e.Mode, e.Frame, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

const minFactor = 1e-12
