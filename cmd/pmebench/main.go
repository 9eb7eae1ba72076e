// Command pmebench times the PME grid transforms of the plan pool on the
// selected backend.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/fftpool"
	"github.com/cwbudde/pmefft/gpu"
	"github.com/cwbudde/pmefft/internal/cpu"
	"github.com/cwbudde/pmefft/internal/fft"
	"github.com/cwbudde/pmefft/pme"
)

const (
	modeForward   = "forward"
	modeInverse   = "inverse"
	modeRoundtrip = "roundtrip"
)

type benchResult struct {
	shape    pmefft.Shape
	mode     string
	kernels  string
	nsPerOp  float64
	nsPerElt float64
}

func main() {
	var (
		shapeList = flag.String("shapes", "16x16x16,32x32x32,48x48x48,64x64x64", "comma-separated grid shapes XxYxZ")
		iters     = flag.Int("iters", 20, "benchmark iterations")
		warmup    = flag.Int("warmup", 3, "warmup iterations")
		mode      = flag.String("mode", "forward", "benchmark mode: forward, inverse, roundtrip, all")
		precision = flag.String("precision", "both", "precision: single, double, both")
		backend   = flag.String("backend", gpu.MockBackendName, "device backend")
		seed      = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	shapes, err := parseShapes(*shapeList)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	if len(shapes) == 0 {
		fmt.Println("no shapes specified")
		return
	}

	modes := resolveModes(*mode)
	if len(modes) == 0 {
		fmt.Printf("unknown mode %q\n", *mode)
		os.Exit(2)
	}

	if err := gpu.Use(*backend); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	ctx, err := gpu.OpenContext(0)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer ctx.Close()

	fmt.Printf("backend=%s device=%q host=%s iters=%d warmup=%d\n",
		*backend, ctx.Device().Name, cpu.DetectFeatures(), *iters, *warmup)
	fmt.Printf("%10s  %14s  %10s  %18s  %12s  %10s\n", "precision", "shape", "mode", "kernels", "ns/op", "ns/elem")

	rnd := rand.New(rand.NewSource(*seed))

	if *precision == "single" || *precision == "both" {
		printResults("single", benchmarkPool[complex64](ctx, rnd, shapes, modes, *iters, *warmup))
	}

	if *precision == "double" || *precision == "both" {
		printResults("double", benchmarkPool[complex128](ctx, rnd, shapes, modes, *iters, *warmup))
	}
}

func printResults(precision string, results []benchResult) {
	for _, res := range results {
		fmt.Printf("%10s  %14s  %10s  %18s  %12.0f  %10.2f\n",
			precision, res.shape, res.mode, res.kernels, res.nsPerOp, res.nsPerElt)
	}
}

// benchmarkPool registers every shape as a PME context, builds one plan
// pool over them and times each context in each mode.
func benchmarkPool[T pmefft.Complex](ctx gpu.Context, rnd *rand.Rand, shapes []pmefft.Shape, modes []string, iters, warmup int) []benchResult {
	reg := pme.NewRegistry[T](ctx)
	defer reg.Close()

	for _, s := range shapes {
		if _, err := reg.Add(s); err != nil {
			fmt.Printf("%s: %v\n", s, err)
			return nil
		}
	}

	pool := fftpool.New[T](ctx, reg)
	pool.Apply(fftpool.Setup)
	defer pool.Apply(fftpool.Teardown)

	results := make([]benchResult, 0, len(shapes)*len(modes))

	for _, u := range reg.Units() {
		shape := reg.Shape(u.Index())

		src := make([]T, shape.Len())
		for i := range src {
			src[i] = T(complex(rnd.Float64(), rnd.Float64()))
		}

		for _, m := range modes {
			ns, err := timeMode(ctx, reg, pool, u, src, m, iters, warmup)
			if err != nil {
				fmt.Printf("%s: %v\n", shape, err)
				continue
			}

			results = append(results, benchResult{
				shape:    shape,
				mode:     m,
				kernels:  kernelNames[T](shape),
				nsPerOp:  ns,
				nsPerElt: ns / float64(shape.Len()),
			})
		}
	}

	return results
}

// timeMode returns the mean ns per iteration of mode on unit u. src is
// uploaded before every iteration, outside the timed region, so the
// unnormalized transforms never compound.
func timeMode[T pmefft.Complex](ctx gpu.Context, reg *pme.Registry[T], pool *fftpool.Pool[T], u pme.Unit, src []T, mode string, iters, warmup int) (float64, error) {
	for range warmup {
		if err := reg.Upload(u, src); err != nil {
			return 0, err
		}

		runMode(pool, u.Index(), mode)
	}

	if err := ctx.Synchronize(); err != nil {
		return 0, err
	}

	runtime.GC()

	var cycles int64

	for range iters {
		if err := reg.Upload(u, src); err != nil {
			return 0, err
		}

		start := cpu.ReadCycleCounter()

		runMode(pool, u.Index(), mode)

		if err := ctx.Synchronize(); err != nil {
			return 0, err
		}

		cycles += cpu.CyclesSince(start)
	}

	return float64(cpu.CyclesToNanoseconds(cycles)) / float64(max(iters, 1)), nil
}

// runMode issues the transforms of one iteration.
func runMode[T pmefft.Complex](pool *fftpool.Pool[T], i int, mode string) {
	switch mode {
	case modeForward:
		pool.Forward(i)
	case modeInverse:
		pool.Inverse(i)
	case modeRoundtrip:
		pool.Forward(i)
		pool.Inverse(i)
	}
}

// kernelNames reports the per-axis 1-D kernels the CPU engine picks for shape.
func kernelNames[T pmefft.Complex](shape pmefft.Shape) string {
	plan, err := fft.NewPlan3D[T](shape.X, shape.Y, shape.Z)
	if err != nil {
		return "?"
	}

	s := plan.Strategies()

	return fmt.Sprintf("%s/%s/%s", s[0], s[1], s[2])
}

func resolveModes(mode string) []string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "all":
		return []string{modeForward, modeInverse, modeRoundtrip}
	case modeForward:
		return []string{modeForward}
	case modeInverse:
		return []string{modeInverse}
	case modeRoundtrip, "round-trip", "rt":
		return []string{modeRoundtrip}
	default:
		return nil
	}
}

func parseShapes(list string) ([]pmefft.Shape, error) {
	parts := strings.Split(list, ",")
	shapes := make([]pmefft.Shape, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dims := strings.Split(strings.ToLower(part), "x")
		if len(dims) != 3 {
			return nil, fmt.Errorf("shape %q: want XxYxZ", part)
		}

		var v [3]int

		for i, d := range dims {
			n, err := strconv.Atoi(strings.TrimSpace(d))
			if err != nil {
				return nil, fmt.Errorf("shape %q: %w", part, err)
			}

			v[i] = n
		}

		shape := pmefft.Shape{X: v[0], Y: v[1], Z: v[2]}
		if err := shape.Validate(); err != nil {
			return nil, fmt.Errorf("shape %q: %w", part, err)
		}

		shapes = append(shapes, shape)
	}

	return shapes, nil
}
