package main

import (
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/fftpool"
	"github.com/cwbudde/pmefft/gpu"
	"github.com/cwbudde/pmefft/internal/fft"
	"github.com/cwbudde/pmefft/pme"
)

type gridResult struct {
	name    string
	shape   pmefft.Shape
	maxErr  float64
	perIter time.Duration
	ok      bool
}

// tolerance is the accepted relative round-trip error at build precision.
func tolerance() float64 {
	if pmefft.BuildPrecision() == "single" {
		return 1e-4
	}

	return 1e-10
}

// roundTrip fills the grid of u with a seeded pattern, runs iterations of
// forward+inverse, and compares the normalized result against the pattern
// once per iteration.
func roundTrip(ctx gpu.Context, reg *pme.Registry[pmefft.Grid], pool *fftpool.Pool[pmefft.Grid], u pme.Unit, iterations int) (gridResult, error) {
	shape := reg.Shape(u.Index())
	n := shape.Len()
	rnd := rand.New(rand.NewSource(int64(u) + 1))

	orig := make([]pmefft.Grid, n)
	for i := range orig {
		orig[i] = pmefft.Grid(complex(rnd.Float64()*2-1, rnd.Float64()*2-1))
	}

	res := gridResult{shape: shape}
	got := make([]pmefft.Grid, n)

	var elapsed time.Duration

	for range iterations {
		if err := reg.Upload(u, orig); err != nil {
			return res, err
		}

		start := time.Now()

		pool.Forward(u.Index())
		pool.Inverse(u.Index())

		if err := ctx.Synchronize(); err != nil {
			return res, err
		}

		elapsed += time.Since(start)

		if err := reg.Download(u, got); err != nil {
			return res, err
		}

		fft.ScaleInPlace(got, 1/float64(n))

		for i := range got {
			if e := cmplx.Abs(complex128(got[i] - orig[i])); e > res.maxErr {
				res.maxErr = e
			}
		}
	}

	res.perIter = elapsed / time.Duration(iterations)
	res.ok = res.maxErr <= tolerance()

	return res, nil
}
