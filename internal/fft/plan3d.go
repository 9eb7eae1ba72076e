package fft

// Plan3D is an in-place 3-D complex transform over a row-major grid of
// nx*ny*nz elements whose third index varies fastest.
// A Plan3D is not safe for concurrent use.
type Plan3D[T Complex] struct {
	nx, ny, nz int
	px, py, pz *Plan[T]
}

// NewPlan3D prepares a transform of the given dimensions.
func NewPlan3D[T Complex](nx, ny, nz int) (*Plan3D[T], error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, ErrInvalidLength
	}

	px, err := NewPlan[T](nx)
	if err != nil {
		return nil, err
	}

	py, err := NewPlan[T](ny)
	if err != nil {
		return nil, err
	}

	pz, err := NewPlan[T](nz)
	if err != nil {
		return nil, err
	}

	return &Plan3D[T]{nx: nx, ny: ny, nz: nz, px: px, py: py, pz: pz}, nil
}

// Dims returns the grid dimensions.
func (p *Plan3D[T]) Dims() (nx, ny, nz int) {
	return p.nx, p.ny, p.nz
}

// Len returns nx*ny*nz.
func (p *Plan3D[T]) Len() int {
	return p.nx * p.ny * p.nz
}

// Strategies reports the 1-D kernel used along each axis.
func (p *Plan3D[T]) Strategies() [3]KernelStrategy {
	return [3]KernelStrategy{p.px.Strategy(), p.py.Strategy(), p.pz.Strategy()}
}

// Forward transforms data in place.
func (p *Plan3D[T]) Forward(data []T) error {
	return p.Transform(data, false)
}

// Inverse transforms data in place without normalization.
func (p *Plan3D[T]) Inverse(data []T) error {
	return p.Transform(data, true)
}

// Transform runs the forward or inverse transform of data[:Len()] in place,
// one axis at a time.
func (p *Plan3D[T]) Transform(data []T, inverse bool) error {
	if data == nil {
		return ErrNilSlice
	}

	if len(data) < p.Len() {
		return ErrLengthMismatch
	}

	plane := p.ny * p.nz

	for x := range p.nx {
		for y := range p.ny {
			p.pz.runStrided(data[x*plane+y*p.nz:], 1, inverse)
		}
	}

	for x := range p.nx {
		for z := range p.nz {
			p.py.runStrided(data[x*plane+z:], p.nz, inverse)
		}
	}

	for y := range p.ny {
		for z := range p.nz {
			p.px.runStrided(data[y*p.nz+z:], plane, inverse)
		}
	}

	return nil
}
