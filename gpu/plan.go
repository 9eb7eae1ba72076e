package gpu

import (
	"fmt"

	"github.com/cwbudde/pmefft"
)

// Plan is a 3-D transform plan bound to one shape, with its precision fixed
// by T. The zero value is an uninitialized plan: it cannot execute and
// destroying it is a no-op.
//
// A Plan is not safe for concurrent use.
type Plan[T Complex] struct {
	shape pmefft.Shape
	impl  PlanImpl
}

// NewPlan creates a device plan for shape on ctx. Backend failures are
// returned as *DeviceError.
func NewPlan[T Complex](ctx Context, shape pmefft.Shape) (Plan[T], error) {
	if err := shape.Validate(); err != nil {
		return Plan[T]{}, &DeviceError{Op: "create", Shape: shape, Err: err}
	}

	precision := PrecisionFor[T]()

	impl, err := ctx.NewPlan3D(shape, precision)
	if err != nil {
		return Plan[T]{}, &DeviceError{Op: "create", Shape: shape, Err: err}
	}

	if impl.Precision() != precision {
		_ = impl.Close()
		return Plan[T]{}, &DeviceError{
			Op:    "create",
			Shape: shape,
			Err:   fmt.Errorf("%w: backend returned %s, want %s", pmefft.ErrPrecisionMismatch, impl.Precision(), precision),
		}
	}

	return Plan[T]{shape: shape, impl: impl}, nil
}

// Valid reports whether the plan has been created and not destroyed.
func (p *Plan[T]) Valid() bool {
	return p != nil && p.impl != nil
}

// Shape returns the grid shape the plan was created for. It is the zero
// Shape for an uninitialized plan.
func (p *Plan[T]) Shape() pmefft.Shape {
	if p == nil {
		return pmefft.Shape{}
	}

	return p.shape
}

// Precision returns the plan precision.
func (p *Plan[T]) Precision() PrecisionKind {
	return PrecisionFor[T]()
}

// Execute transforms buf in place. It does not wait for the device.
func (p *Plan[T]) Execute(buf Buffer, dir pmefft.Direction) error {
	if !p.Valid() {
		return ErrPlanInvalid
	}

	if buf.Precision() != PrecisionFor[T]() {
		return &DeviceError{Op: "execute", Shape: p.shape, Err: pmefft.ErrPrecisionMismatch}
	}

	if buf.Len() < p.shape.Len() {
		return &DeviceError{Op: "execute", Shape: p.shape, Err: ErrLengthMismatch}
	}

	if err := p.impl.Execute(buf, dir); err != nil {
		return &DeviceError{Op: "execute", Shape: p.shape, Err: err}
	}

	return nil
}

// Forward is Execute(buf, pmefft.Forward).
func (p *Plan[T]) Forward(buf Buffer) error {
	return p.Execute(buf, pmefft.Forward)
}

// Inverse is Execute(buf, pmefft.Inverse).
func (p *Plan[T]) Inverse(buf Buffer) error {
	return p.Execute(buf, pmefft.Inverse)
}

// Destroy releases the device plan. Destroying an uninitialized or already
// destroyed plan does nothing, so the backend sees at most one release.
func (p *Plan[T]) Destroy() error {
	if !p.Valid() {
		return nil
	}

	impl := p.impl
	p.impl = nil

	if err := impl.Close(); err != nil {
		return &DeviceError{Op: "destroy", Shape: p.shape, Err: err}
	}

	return nil
}
