// Package pme is the registry of particle-mesh Ewald contexts. Each context
// has a 3-D grid shape and owns one device grid buffer. The transform plan
// pool reads the registry but never mutates it.
package pme

import (
	"errors"
	"fmt"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/gpu"
)

// ErrUnknownUnit is returned when a Unit does not name a registered context.
var ErrUnknownUnit = errors.New("pme: unknown unit")

// Unit identifies a PME context by its registry index.
type Unit int

// Index returns the registry index of u.
func (u Unit) Index() int {
	return int(u)
}

// Grid is one PME context: a grid shape and its device buffer.
type Grid struct {
	Unit   Unit
	Shape  pmefft.Shape
	Buffer gpu.Buffer
}

// Registry is an ordered collection of PME contexts whose grids hold
// elements of type T. Registry is not safe for concurrent use.
type Registry[T pmefft.Complex] struct {
	ctx   gpu.Context
	grids []Grid
}

// NewRegistry returns an empty registry allocating grid buffers on ctx.
func NewRegistry[T pmefft.Complex](ctx gpu.Context) *Registry[T] {
	return &Registry[T]{ctx: ctx}
}

// Add registers a context with the given grid shape, allocating a zeroed
// device buffer for it.
func (r *Registry[T]) Add(shape pmefft.Shape) (Unit, error) {
	buf, err := gpu.NewGridBuffer[T](r.ctx, shape)
	if err != nil {
		return 0, fmt.Errorf("pme: allocate %s grid: %w", shape, err)
	}

	u := Unit(len(r.grids))
	r.grids = append(r.grids, Grid{Unit: u, Shape: shape, Buffer: buf})

	return u, nil
}

// Size returns the number of registered contexts.
func (r *Registry[T]) Size() int {
	return len(r.grids)
}

// Shape returns the grid shape of context i. i must be in [0, Size()).
func (r *Registry[T]) Shape(i int) pmefft.Shape {
	return r.grids[i].Shape
}

// GridBuffer returns the device buffer of context i. i must be in [0, Size()).
func (r *Registry[T]) GridBuffer(i int) gpu.Buffer {
	return r.grids[i].Buffer
}

// Grid returns the context named by u.
func (r *Registry[T]) Grid(u Unit) (Grid, error) {
	if u < 0 || int(u) >= len(r.grids) {
		return Grid{}, fmt.Errorf("%w: %d", ErrUnknownUnit, u)
	}

	return r.grids[u], nil
}

// Units lists the registered units in index order.
func (r *Registry[T]) Units() []Unit {
	units := make([]Unit, len(r.grids))
	for i := range r.grids {
		units[i] = Unit(i)
	}

	return units
}

// Upload copies src into the grid buffer of u.
func (r *Registry[T]) Upload(u Unit, src []T) error {
	g, err := r.Grid(u)
	if err != nil {
		return err
	}

	return gpu.Upload(g.Buffer, src)
}

// Download copies the grid buffer of u into dst.
func (r *Registry[T]) Download(u Unit, dst []T) error {
	g, err := r.Grid(u)
	if err != nil {
		return err
	}

	return gpu.Download(g.Buffer, dst)
}

// Close releases every grid buffer and empties the registry. Any plan pool
// built over the registry must be deallocated first.
func (r *Registry[T]) Close() error {
	var firstErr error

	for _, g := range r.grids {
		if err := g.Buffer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	r.grids = nil

	return firstErr
}
