package main

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/fftpool"
	"github.com/cwbudde/pmefft/gpu"
	"github.com/cwbudde/pmefft/pme"
)

func TestParseShapes(t *testing.T) {
	t.Parallel()

	got, err := parseShapes(" 8x8x8, 16X16x8 ,,")
	if err != nil {
		t.Fatalf("parseShapes: %v", err)
	}

	want := []pmefft.Shape{{X: 8, Y: 8, Z: 8}, {X: 16, Y: 16, Z: 8}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shape %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseShapesRejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"8x8", "8x8x8x8", "8xax8"} {
		if _, err := parseShapes(in); err == nil {
			t.Errorf("parseShapes(%q) succeeded", in)
		}
	}

	if _, err := parseShapes("8x0x8"); !errors.Is(err, pmefft.ErrInvalidShape) {
		t.Errorf("zero dimension error = %v, want ErrInvalidShape", err)
	}
}

func TestResolveModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"forward", 1},
		{"Inverse", 1},
		{"rt", 1},
		{"all", 3},
		{"sideways", 0},
	}

	for _, tt := range tests {
		if got := resolveModes(tt.in); len(got) != tt.want {
			t.Errorf("resolveModes(%q) = %v, want %d modes", tt.in, got, tt.want)
		}
	}
}

func TestBenchmarkPool(t *testing.T) {
	backend := gpu.NewMockBackend()
	gpu.RegisterBackend(backend)

	ctx, err := gpu.OpenContext(0)
	if err != nil {
		t.Fatalf("OpenContext: %v", err)
	}
	defer ctx.Close()

	shapes := []pmefft.Shape{{X: 4, Y: 4, Z: 4}, {X: 6, Y: 4, Z: 2}}
	results := benchmarkPool[complex64](ctx, rand.New(rand.NewSource(1)), shapes, resolveModes("all"), 2, 1)

	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}

	for _, r := range results {
		if r.nsPerOp < 0 || r.kernels == "?" {
			t.Errorf("result %+v", r)
		}
	}

	if live := backend.Stats().LivePlans(); live != 0 {
		t.Errorf("live plans after benchmark = %d, want 0", live)
	}
}

func TestTimeModeDoesNotCompound(t *testing.T) {
	backend := gpu.NewMockBackend()

	ctx, err := backend.NewContext(0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	shape := pmefft.Shape{X: 8, Y: 8, Z: 8}
	reg := pme.NewRegistry[complex64](ctx)

	u, err := reg.Add(shape)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	pool := fftpool.New[complex64](ctx, reg)
	pool.Apply(fftpool.Setup)
	defer pool.Apply(fftpool.Teardown)

	src := make([]complex64, shape.Len())
	for i := range src {
		src[i] = complex(float32(i%7)-3, float32(i%5)-2)
	}

	if _, err := timeMode(ctx, reg, pool, u, src, modeRoundtrip, 40, 5); err != nil {
		t.Fatalf("timeMode: %v", err)
	}

	got := make([]complex64, shape.Len())
	if err := reg.Download(u, got); err != nil {
		t.Fatalf("Download: %v", err)
	}

	n := float64(shape.Len())
	for i := range got {
		v := complex128(got[i])
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			t.Fatalf("element %d = %v after repeated round trips", i, v)
		}

		if d := cmplx.Abs(v/complex(n, 0) - complex128(src[i])); d > 1e-4 || math.IsNaN(d) {
			t.Fatalf("element %d = %v, want %v scaled by %v", i, v, src[i], n)
		}
	}
}
