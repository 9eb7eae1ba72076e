// Package fftpool keeps one 3-D transform plan per PME context and runs the
// in-place forward and inverse transforms of a context's grid.
//
// The pool is either empty or holds exactly one slot per registry context.
// It changes size only through Apply: Deallocate empties it, Allocate sizes
// an empty pool to the registry, Initialize creates the device plans.
//
// Invariant violations and device-library failures are fatal: the pool logs
// them and panics with *InvariantError or *gpu.DeviceError. Callers that
// want process termination recover at the top of main.
//
// A Pool assumes a single writer. Apply and Execute must not be called
// concurrently with each other or themselves.
package fftpool

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/gpu"
	"github.com/cwbudde/pmefft/internal/logging"
)

// Registry is the read-only view of the PME context registry the pool needs.
type Registry interface {
	Size() int
	Shape(i int) pmefft.Shape
	GridBuffer(i int) gpu.Buffer
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the pool logger. The default is logging.L(); nil selects
// a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}

		o.logger = l
	}
}

// Pool holds one transform plan per registry context, with precision T.
type Pool[T pmefft.Complex] struct {
	ctx      gpu.Context
	registry Registry
	plans    []gpu.Plan[T]
	log      *zap.Logger
}

// New returns an empty pool creating plans on ctx for the contexts of reg.
func New[T pmefft.Complex](ctx gpu.Context, reg Registry, opts ...Option) *Pool[T] {
	o := options{logger: logging.L()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Pool[T]{
		ctx:      ctx,
		registry: reg,
		log:      o.logger.With(zap.String("precision", pmefft.PrecisionOf[T]())),
	}
}

// Size returns the number of slots.
func (p *Pool[T]) Size() int {
	return len(p.plans)
}

// Initialized reports whether slot i holds a live plan. It is false for an
// out-of-range i.
func (p *Pool[T]) Initialized(i int) bool {
	return i >= 0 && i < len(p.plans) && p.plans[i].Valid()
}

// SlotShape returns the shape slot i was initialized with, or the zero
// Shape when the slot is out of range or uninitialized.
func (p *Pool[T]) SlotShape(i int) pmefft.Shape {
	if !p.Initialized(i) {
		return pmefft.Shape{}
	}

	return p.plans[i].Shape()
}

// Apply runs the phases of op in the order Deallocate, Allocate,
// Initialize.
func (p *Pool[T]) Apply(op Op) {
	log := p.log.With(zap.String("apply_id", uuid.NewString()), zap.Stringer("op", op))
	log.Debug("plan pool apply", zap.Int("slots", len(p.plans)), zap.Int("contexts", p.registry.Size()))

	if op.Has(Deallocate) {
		p.deallocate(log)
	}

	if op.Has(Allocate) {
		p.allocate(log)
	}

	if op.Has(Initialize) {
		p.initialize(log)
	}
}

func (p *Pool[T]) deallocate(log *zap.Logger) {
	for i := range p.plans {
		if err := p.plans[i].Destroy(); err != nil {
			p.fatal(log, err, zap.Int("slot", i))
		}
	}

	if len(p.plans) > 0 {
		log.Debug("plan pool deallocated", zap.Int("slots", len(p.plans)))
	}

	p.plans = nil
}

func (p *Pool[T]) allocate(log *zap.Logger) {
	if len(p.plans) != 0 {
		p.fatal(log, invariant("alloc", "pool holds %d slots, want 0", len(p.plans)))
	}

	p.plans = make([]gpu.Plan[T], p.registry.Size())
	log.Debug("plan pool allocated", zap.Int("slots", len(p.plans)))
}

func (p *Pool[T]) initialize(log *zap.Logger) {
	if len(p.plans) == 0 {
		return
	}

	if n := p.registry.Size(); len(p.plans) != n {
		p.fatal(log, invariant("init", "pool holds %d slots but registry has %d contexts", len(p.plans), n))
	}

	for i := range p.plans {
		if p.plans[i].Valid() {
			p.fatal(log, invariant("init", "slot %d already initialized", i))
		}

		shape := p.registry.Shape(i)

		plan, err := gpu.NewPlan[T](p.ctx, shape)
		if err != nil {
			p.fatal(log, err, zap.Int("slot", i))
		}

		p.plans[i] = plan
		log.Debug("plan created", zap.Int("slot", i), zap.Stringer("shape", shape))
	}
}

// Execute transforms the grid of context i in place. The device work is
// issued but not awaited; synchronizing with it is the caller's job.
func (p *Pool[T]) Execute(dir pmefft.Direction, i int) {
	if i < 0 || i >= len(p.plans) {
		p.fatal(p.log, invariant("execute", "context index %d out of range [0, %d)", i, len(p.plans)))
	}

	if n := p.registry.Size(); i >= n {
		p.fatal(p.log, invariant("execute", "context index %d beyond registry of %d contexts", i, n))
	}

	plan := &p.plans[i]
	if !plan.Valid() {
		p.fatal(p.log, invariant("execute", "slot %d not initialized", i))
	}

	if err := plan.Execute(p.registry.GridBuffer(i), dir); err != nil {
		p.fatal(p.log, err, zap.Int("slot", i), zap.Stringer("direction", dir))
	}
}

// Forward is Execute(pmefft.Forward, i).
func (p *Pool[T]) Forward(i int) {
	p.Execute(pmefft.Forward, i)
}

// Inverse is Execute(pmefft.Inverse, i).
func (p *Pool[T]) Inverse(i int) {
	p.Execute(pmefft.Inverse, i)
}

func (p *Pool[T]) fatal(log *zap.Logger, err error, fields ...zap.Field) {
	log.Error("plan pool failure", append(fields, zap.Error(err))...)
	panic(err)
}
