package metrics

import (
	"math"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

// MinSeparation is the smallest world distance between any two charges over
// the run. It reads +Inf until two charges have been observed together.
type MinSeparation struct {
	name string
	min  float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(f dynamo.Frame) {
	for i := 0; i < len(f.Positions); i++ {
		for j := i + 1; j < len(f.Positions); j++ {
			d := f.Positions[i].Sub(f.Positions[j]).Len()
			if d < m.min {
				m.min = d
			}
		}
	}
}

func (m *MinSeparation) Value() float64 { return m.min }
func (m *MinSeparation) Reset()         { m.min = math.Inf(1) }

// PathLength is the total world distance travelled by every charge.
type PathLength struct {
	name  string
	prev  []dynamo.Vec3
	total float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(f dynamo.Frame) {
	if len(p.prev) == len(f.Positions) {
		for i, pos := range f.Positions {
			p.total += pos.Sub(p.prev[i]).Len()
		}
	}
	p.prev = append(p.prev[:0], f.Positions...)
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.prev = p.prev[:0]
	p.total = 0
}
