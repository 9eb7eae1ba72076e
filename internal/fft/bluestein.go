package fft

import (
	"math"

	m "github.com/cwbudde/pmefft/internal/math"
)

// bluestein evaluates a length-n DFT as a circular convolution of
// power-of-two length. The inverse is conj(forward(conj(x))).
type bluestein[T Complex] struct {
	n     int
	mlen  int
	chirp []T // exp(-iπk²/n), k < n
	// kernel is the forward transform of the conjugate chirp, pre-scaled by 1/mlen.
	kernel  []T
	inner   *Plan[T]
	scratch []T
}

func newBluestein[T Complex](n int) *bluestein[T] {
	mlen := m.NextPowerOf2(2*n - 1)

	chirp := make([]T, n)
	for k := range n {
		// k² mod 2n keeps the angle argument small for large k.
		kk := (k * k) % (2 * n)
		angle := -math.Pi * float64(kk) / float64(n)
		chirp[k] = m.FromFloat64[T](math.Cos(angle), math.Sin(angle))
	}

	// mlen is a power of two >= 2, so the inner plan is always radix-2.
	inner, _ := NewPlan[T](mlen)

	kernel := make([]T, mlen)
	kernel[0] = m.Conj(chirp[0])

	for k := 1; k < n; k++ {
		c := m.Conj(chirp[k])
		kernel[k] = c
		kernel[mlen-k] = c
	}

	inner.run(kernel, false)

	scale := m.FromFloat64[T](1/float64(mlen), 0)
	for i := range kernel {
		kernel[i] *= scale
	}

	return &bluestein[T]{
		n:       n,
		mlen:    mlen,
		chirp:   chirp,
		kernel:  kernel,
		inner:   inner,
		scratch: make([]T, mlen),
	}
}

func (b *bluestein[T]) transform(data []T, inverse bool) {
	if inverse {
		for i := range data {
			data[i] = m.Conj(data[i])
		}
	}

	buf := b.scratch
	for k := range b.n {
		buf[k] = data[k] * b.chirp[k]
	}

	clear(buf[b.n:])

	b.inner.run(buf, false)

	for i := range buf {
		buf[i] *= b.kernel[i]
	}

	b.inner.run(buf, true)

	for k := range b.n {
		data[k] = buf[k] * b.chirp[k]
	}

	if inverse {
		for i := range data {
			data[i] = m.Conj(data[i])
		}
	}
}
