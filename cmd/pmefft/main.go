// Command pmefft builds a PME context registry and its transform plan pool
// from a run description, checks a forward/inverse round trip on every
// grid, and tears everything down again.
//
// Usage:
//
//	pmefft [-config run.toml] [-env .env] [-pdb system.pdb]
//
// Device failures and plan pool invariant violations terminate the run
// with exit status 1.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/fftpool"
	"github.com/cwbudde/pmefft/gpu"
	"github.com/cwbudde/pmefft/internal/config"
	"github.com/cwbudde/pmefft/internal/logging"
	"github.com/cwbudde/pmefft/pdb"
	"github.com/cwbudde/pmefft/pme"
)

func main() {
	var (
		configPath = flag.String("config", "", "run description (.toml, .yaml or .yml); defaults to one 32^3 grid")
		envFile    = flag.String("env", ".env", "dotenv file with PMEFFT_* overrides (optional)")
		pdbPath    = flag.String("pdb", "", "PDB structure whose residue/atom tables are loaded and summarized (optional)")
	)
	flag.Parse()

	os.Exit(run(options{config: *configPath, env: *envFile, pdb: *pdbPath}, os.Stdout))
}

type options struct {
	config string
	env    string
	pdb    string
}

// run executes one driver pass and returns the process exit status.
func run(opts options, out io.Writer) (code int) {
	cfg := config.Default()

	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}

		cfg = loaded
	}

	var envFiles []string
	if opts.env != "" {
		envFiles = append(envFiles, opts.env)
	}

	if err := config.LoadEnv(&cfg, envFiles...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := cfg.CheckPrecision(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	defer func() { _ = logger.Sync() }()

	logging.SetLogger(logger)
	defer logging.SetLogger(nil)

	log := logger.With(zap.String("run_id", uuid.NewString()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("fatal failure, aborting run", zap.Any("cause", r))
			code = 1
		}
	}()

	if opts.pdb != "" {
		if err := summarizeStructure(opts.pdb, log); err != nil {
			log.Error("structure load failed", zap.Error(err))
			return 1
		}
	}

	results, err := drive(cfg, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return 1
	}

	if !writeReport(out, results) {
		return 1
	}

	return 0
}

// drive runs the round trips. Fatal pool failures panic through it.
func drive(cfg config.Config, log *zap.Logger) ([]gridResult, error) {
	if err := gpu.Use(cfg.Backend); err != nil {
		return nil, err
	}

	ctx, err := gpu.OpenContext(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open %s device %d: %w", cfg.Backend, cfg.Device, err)
	}

	defer func() { _ = ctx.Close() }()

	dev := ctx.Device()
	log.Info("device opened",
		zap.String("backend", cfg.Backend),
		zap.String("device", dev.Name),
		zap.String("compute_cap", dev.ComputeCap),
		zap.String("precision", pmefft.BuildPrecision()),
	)

	reg := pme.NewRegistry[pmefft.Grid](ctx)
	defer func() { _ = reg.Close() }()

	for _, g := range cfg.Grids {
		if _, err := reg.Add(g.Shape()); err != nil {
			return nil, fmt.Errorf("grid %q: %w", g.Name, err)
		}
	}

	pool := fftpool.New[pmefft.Grid](ctx, reg, fftpool.WithLogger(log))
	pool.Apply(fftpool.Rebuild)
	defer pool.Apply(fftpool.Teardown)

	log.Info("plan pool ready", zap.Int("plans", pool.Size()))

	results := make([]gridResult, 0, len(cfg.Grids))

	for i, g := range cfg.Grids {
		res, err := roundTrip(ctx, reg, pool, pme.Unit(i), cfg.Iterations)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", g.Name, err)
		}

		res.name = g.Name
		results = append(results, res)

		log.Debug("round trip checked",
			zap.String("grid", g.Name),
			zap.Stringer("shape", res.shape),
			zap.Float64("max_error", res.maxErr),
			zap.Duration("per_iteration", res.perIter),
		)
	}

	return results, nil
}

// summarizeStructure reads the residue/atom tables of a PDB file and logs
// their sizes.
func summarizeStructure(path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tables, err := pdb.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("atoms", tables.NumAtoms()),
		zap.Int("residues", tables.NumResidues()),
	}

	if tables.NumAtoms() > 0 {
		if res, err := tables.ResidueOf(0); err == nil {
			fields = append(fields, zap.String("first_residue", res.Name))
		}
	}

	log.Info("structure loaded", fields...)

	return nil
}
