package coulomb

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

// Hooks are optional notifications fired synchronously by the engine.
type Hooks struct {
	ChargeAdded      func(c *Charge)
	ChargeRemoved    func(c *Charge)
	MaxReached       func()
	BelowMax         func()
	CapacityExceeded func(c *Charge)
	ModeChanged      func(m space.Mode)
}

// Bounds clamps committed positions per axis.
type Bounds struct {
	Min dynamo.Vec3
	Max dynamo.Vec3
}

func (b Bounds) Clamp(p dynamo.Vec3) dynamo.Vec3 {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			p[i] = b.Min[i]
		}
		if p[i] > b.Max[i] {
			p[i] = b.Max[i]
		}
	}
	return p
}

type Option func(*Engine)

func WithMaxCharges(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCharges = n
		}
	}
}

// WithRadius sets the particle radius in world units.
func WithRadius(r float64) Option {
	return func(e *Engine) { e.radius = r }
}

// WithCorrectionFactor scales every displacement, on all axes.
func WithCorrectionFactor(f float64) Option {
	return func(e *Engine) { e.correction = f }
}

func WithMover(m Mover) Option {
	return func(e *Engine) {
		if m != nil {
			e.mover = m
		}
	}
}

func WithBounds(b Bounds) Option {
	return func(e *Engine) { e.bounds = &b }
}

func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

type Engine struct {
	transform  *space.Transform
	charges    []*Charge
	maxCharges int
	radius     float64
	correction float64
	mover      Mover
	bounds     *Bounds
	running    bool
	hooks      Hooks
	logger     *zap.Logger
}

// New returns a stopped engine. The transform must already be initialized;
// the engine switches its mode in SetMode.
func New(tr *space.Transform, opts ...Option) *Engine {
	e := &Engine{
		transform:  tr,
		maxCharges: DefaultMaxCharges,
		radius:     DefaultRadius,
		correction: 1,
		mover:      DisplacementMover{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Transform() *space.Transform { return e.transform }
func (e *Engine) Mover() Mover                { return e.mover }
func (e *Engine) MaxCharges() int             { return e.maxCharges }
func (e *Engine) Len() int                    { return len(e.charges) }
func (e *Engine) Running() bool               { return e.running }

// SetRunning opens or closes the tick gate. Closing it leaves every
// position where it is.
func (e *Engine) SetRunning(running bool) {
	e.running = running
}

// Add appends c. At capacity the call is a no-op returning
// ErrCapacityExceeded. Adding stops the simulation.
func (e *Engine) Add(c *Charge) error {
	if c == nil {
		return dynamo.ErrNilCharge
	}
	if e.Contains(c.ID) {
		return fmt.Errorf("%w: %s", dynamo.ErrDuplicateCharge, c.ID)
	}
	if len(e.charges) >= e.maxCharges {
		e.logger.Warn("charge limit reached, ignoring add",
			zap.Int("max_charges", e.maxCharges),
			zap.String("id", c.ID.String()))
		if e.hooks.CapacityExceeded != nil {
			e.hooks.CapacityExceeded(c)
		}
		return dynamo.ErrCapacityExceeded
	}

	e.running = false
	e.charges = append(e.charges, c)
	e.logger.Debug("charge added",
		zap.String("id", c.ID.String()),
		zap.Float64("charge", c.Charge),
		zap.Bool("fixed", c.Fixed),
		zap.Int("count", len(e.charges)))

	if len(e.charges) == e.maxCharges && e.hooks.MaxReached != nil {
		e.hooks.MaxReached()
	}
	if e.hooks.ChargeAdded != nil {
		e.hooks.ChargeAdded(c)
	}
	return nil
}

// Remove drops the charge with id and reports whether it was present.
func (e *Engine) Remove(id uuid.UUID) bool {
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	c := e.charges[idx]
	e.charges = append(e.charges[:idx], e.charges[idx+1:]...)
	e.logger.Debug("charge removed", zap.String("id", id.String()), zap.Int("count", len(e.charges)))

	if len(e.charges) == e.maxCharges-1 && e.hooks.BelowMax != nil {
		e.hooks.BelowMax()
	}
	if e.hooks.ChargeRemoved != nil {
		e.hooks.ChargeRemoved(c)
	}
	return true
}

func (e *Engine) RemoveAll() {
	for len(e.charges) > 0 {
		e.Remove(e.charges[0].ID)
	}
}

func (e *Engine) Contains(id uuid.UUID) bool {
	return e.indexOf(id) >= 0
}

func (e *Engine) Get(id uuid.UUID) (*Charge, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return e.charges[idx], true
}

// Charges returns the charges in engine order. The slice is a copy; the
// charges are shared.
func (e *Engine) Charges() []*Charge {
	out := make([]*Charge, len(e.charges))
	copy(out, e.charges)
	return out
}

func (e *Engine) ActiveCount() int {
	n := 0
	for _, c := range e.charges {
		if c.Active {
			n++
		}
	}
	return n
}

// ChargesAsVec4 packs every charge as (x, y, z, q).
func (e *Engine) ChargesAsVec4() []dynamo.Vec4 {
	out := make([]dynamo.Vec4, len(e.charges))
	for i, c := range e.charges {
		out[i] = c.Position.Vec4(c.Charge)
	}
	return out
}

func (e *Engine) indexOf(id uuid.UUID) int {
	for i, c := range e.charges {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// SetMode stops the simulation, switches the transform to m and then
// removes every charge. ModeChanged fires before the removal hooks.
func (e *Engine) SetMode(m space.Mode) error {
	if err := e.transform.SetMode(m); err != nil {
		return fmt.Errorf("switch to %s: %w", m, err)
	}
	e.running = false
	e.logger.Info("mode changed", zap.Stringer("mode", m))
	if e.hooks.ModeChanged != nil {
		e.hooks.ModeChanged(m)
	}
	e.RemoveAll()
	return nil
}

// Snapshot copies every charge as it is now.
func (e *Engine) Snapshot() *Snapshot {
	states := make([]ChargeState, len(e.charges))
	for i, c := range e.charges {
		states[i] = c.State()
	}
	return &Snapshot{
		Charges:    states,
		transform:  e.transform,
		radius:     e.radius,
		correction: e.correction,
	}
}

// ComputeCandidates runs the mover against a fresh snapshot without
// touching any charge.
func (e *Engine) ComputeCandidates(dt float64) Candidates {
	return e.mover.Candidates(e.Snapshot(), dt)
}

// CommitCandidates applies candidates to the charges still present and
// still movable.
func (e *Engine) CommitCandidates(cands Candidates) []Update {
	updates := make([]Update, 0, len(cands))
	for _, cand := range cands {
		c, ok := e.Get(cand.ID)
		if !ok || !c.State().Movable() {
			continue
		}
		to := cand.To
		if e.bounds != nil {
			to = e.bounds.Clamp(to)
		}
		updates = append(updates, Update{ID: c.ID, From: c.Position, To: to})
		c.Position = to
	}
	return updates
}

// StepSimulation computes every candidate from the current positions and
// then commits them all.
func (e *Engine) StepSimulation(dt float64) []Update {
	return e.CommitCandidates(e.ComputeCandidates(dt))
}

// Tick steps the simulation when it is running and reports whether it did.
func (e *Engine) Tick(dt float64) ([]Update, bool) {
	if !e.running {
		return nil, false
	}
	return e.StepSimulation(dt), true
}

// Frame records the current positions for metrics and observers.
func (e *Engine) Frame(step int, t float64) dynamo.Frame {
	f := dynamo.Frame{
		Step:      step,
		Time:      t,
		Positions: make([]dynamo.Vec3, len(e.charges)),
		Charges:   make([]float64, len(e.charges)),
	}
	for i, c := range e.charges {
		f.Positions[i] = c.Position
		f.Charges[i] = c.Charge
	}
	return f
}
