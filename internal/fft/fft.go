// Package fft is the CPU transform engine behind the mock device backend.
//
// It provides in-place 1-D complex transforms of any positive length
// (iterative radix-2 for powers of two, Bluestein otherwise), strided
// execution over interleaved layouts, and 3-D plans composed from one 1-D
// plan per axis. Inverse transforms are unnormalized.
package fft

import (
	"errors"

	"github.com/cwbudde/pmefft/internal/fftypes"
	m "github.com/cwbudde/pmefft/internal/math"
)

// Complex is a type alias for the complex number constraint.
// The canonical definition is in internal/fftypes.
type Complex = fftypes.Complex

// KernelStrategy is re-exported for callers outside internal/fftypes.
type KernelStrategy = fftypes.KernelStrategy

// Sentinel errors returned by engine plans.
var (
	ErrInvalidLength  = errors.New("fft: invalid length")
	ErrLengthMismatch = errors.New("fft: slice length mismatch")
	ErrInvalidStride  = errors.New("fft: invalid stride")
	ErrNilSlice       = errors.New("fft: nil slice")
)

// Plan is a reusable 1-D transform of fixed length.
// A Plan owns scratch space and is not safe for concurrent use.
type Plan[T Complex] struct {
	n        int
	strategy KernelStrategy

	twiddleFwd []T
	twiddleInv []T
	bitrev     []int

	blue *bluestein[T]

	stridedScratch []T
}

// NewPlan prepares a transform of length n.
func NewPlan[T Complex](n int) (*Plan[T], error) {
	if n < 1 {
		return nil, ErrInvalidLength
	}

	p := &Plan[T]{
		n:              n,
		stridedScratch: make([]T, n),
	}

	switch {
	case n == 1:
		p.strategy = fftypes.KernelIdentity
	case m.IsPowerOf2(n):
		p.strategy = fftypes.KernelDIT
		p.twiddleFwd, p.twiddleInv = ditTwiddles[T](n)
		p.bitrev = m.ComputeBitReversalIndices(n)
	default:
		p.strategy = fftypes.KernelBluestein
		p.blue = newBluestein[T](n)
	}

	return p, nil
}

// Len returns the transform length.
func (p *Plan[T]) Len() int {
	return p.n
}

// Strategy reports the kernel chosen at plan creation.
func (p *Plan[T]) Strategy() KernelStrategy {
	return p.strategy
}

// Forward transforms data[:n] in place with the exp(-2πi/n) convention.
func (p *Plan[T]) Forward(data []T) error {
	return p.Transform(data, false)
}

// Inverse transforms data[:n] in place with the exp(+2πi/n) convention.
// The result is not divided by n.
func (p *Plan[T]) Inverse(data []T) error {
	return p.Transform(data, true)
}

// Transform runs the forward or inverse transform on data[:n] in place.
func (p *Plan[T]) Transform(data []T, inverse bool) error {
	if data == nil {
		return ErrNilSlice
	}

	if len(data) < p.n {
		return ErrLengthMismatch
	}

	p.run(data[:p.n], inverse)

	return nil
}

// run dispatches without validation; len(data) == p.n.
func (p *Plan[T]) run(data []T, inverse bool) {
	switch p.strategy {
	case fftypes.KernelDIT:
		if inverse {
			ditInPlace(data, p.twiddleInv, p.bitrev)
		} else {
			ditInPlace(data, p.twiddleFwd, p.bitrev)
		}
	case fftypes.KernelBluestein:
		p.blue.transform(data, inverse)
	}
}
