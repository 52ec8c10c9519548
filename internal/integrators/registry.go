package integrators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

const (
	ExplicitEulerName     = "explicit_euler"
	SemiImplicitEulerName = "semi_implicit_euler"
	RK4Name               = "rk4"
	RK45Name              = "rk45"
	VelocityVerletName    = "velocity_verlet"
)

var constructors = map[string]func() dynamo.Integrator{
	ExplicitEulerName:     func() dynamo.Integrator { return NewExplicitEuler() },
	SemiImplicitEulerName: func() dynamo.Integrator { return NewSemiImplicitEuler() },
	RK4Name:               func() dynamo.Integrator { return NewRK4() },
	RK45Name:              func() dynamo.Integrator { return NewRK45() },
	VelocityVerletName:    func() dynamo.Integrator { return NewVelocityVerlet() },
}

var aliases = map[string]string{
	"euler":            ExplicitEulerName,
	"symplectic_euler": SemiImplicitEulerName,
	"verlet":           VelocityVerletName,
	"runge_kutta4":     RK4Name,
	"dopri5":           RK45Name,
}

// New returns a fresh integrator for name. RK4 and RK45 keep scratch state,
// so instances must not be shared between goroutines.
func New(name string) (dynamo.Integrator, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	fn, ok := constructors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

// Names lists the canonical integrator names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
