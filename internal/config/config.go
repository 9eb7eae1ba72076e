// Package config loads the run description of the pmefft commands: which
// backend to use, the PME grids to register and how to log.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/internal/logging"
)

// Environment variables that override file settings.
const (
	EnvLogLevel = "PMEFFT_LOG_LEVEL"
	EnvLogFile  = "PMEFFT_LOG_FILE"
	EnvBackend  = "PMEFFT_BACKEND"
	EnvDevice   = "PMEFFT_DEVICE"
)

// ErrUnsupportedFormat is returned for a config file that is neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config is the run description.
type Config struct {
	Backend    string       `toml:"backend" yaml:"backend"`
	Device     int          `toml:"device" yaml:"device"`
	Precision  string       `toml:"precision" yaml:"precision"`
	Iterations int          `toml:"iterations" yaml:"iterations"`
	Log        LogConfig    `toml:"log" yaml:"log"`
	Grids      []GridConfig `toml:"grids" yaml:"grids"`
}

// LogConfig mirrors logging.Config in file form.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
	File        string `toml:"file" yaml:"file"`
	MaxSizeMB   int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups  int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays  int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress    bool   `toml:"compress" yaml:"compress"`
}

// GridConfig is one PME context. The dimension names follow the PME
// convention nfft1 x nfft2 x nfft3.
type GridConfig struct {
	Name  string `toml:"name" yaml:"name"`
	NFFT1 int    `toml:"nfft1" yaml:"nfft1"`
	NFFT2 int    `toml:"nfft2" yaml:"nfft2"`
	NFFT3 int    `toml:"nfft3" yaml:"nfft3"`
}

// Shape returns the grid shape.
func (g GridConfig) Shape() pmefft.Shape {
	return pmefft.Shape{X: g.NFFT1, Y: g.NFFT2, Z: g.NFFT3}
}

// Default returns the configuration used when no file is given: the mock
// backend with one 32^3 electrostatics grid.
func Default() Config {
	return Config{
		Backend:    "mock",
		Iterations: 1,
		Log:        LogConfig{Level: "info"},
		Grids:      []GridConfig{{Name: "pme", NFFT1: 32, NFFT2: 32, NFFT3: 32}},
	}
}

// Load reads path as TOML (.toml) or YAML (.yaml, .yml) on top of Default,
// then validates it. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	// Grids from the file replace the default list; decoding over it would
	// fill missing grid keys from the default grid.
	cfg.Grids = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
		}

		if !meta.IsDefined("grids") {
			cfg.Grids = Default().Grids
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}

		if cfg.Grids == nil {
			cfg.Grids = Default().Grids
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}

	return cfg, nil
}

// LoadEnv loads the given dotenv files, skipping those that do not exist,
// then applies the PMEFFT_* overrides to cfg. Variables already set in the
// process environment win over dotenv values.
func LoadEnv(cfg *Config, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}

	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.Log.File = v
	}

	if v, ok := os.LookupEnv(EnvBackend); ok {
		cfg.Backend = strings.TrimSpace(v)
	}

	if v, ok := os.LookupEnv(EnvDevice); ok {
		d, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvDevice, err)
		}

		cfg.Device = d
	}

	return cfg.Validate()
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Backend) == "" {
		return errors.New("config missing backend")
	}

	if c.Device < 0 {
		return fmt.Errorf("device index %d is negative", c.Device)
	}

	switch c.Precision {
	case "", "single", "double":
	default:
		return fmt.Errorf("precision %q: want single or double", c.Precision)
	}

	if c.Iterations < 1 {
		return fmt.Errorf("iterations %d: want >= 1", c.Iterations)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if len(c.Grids) == 0 {
		return errors.New("config lists no grids")
	}

	for i, g := range c.Grids {
		if err := g.Shape().Validate(); err != nil {
			return fmt.Errorf("grid[%d] %q invalid: %w", i, g.Name, err)
		}
	}

	return nil
}

// CheckPrecision reports an error when the file asks for a precision other
// than the one the binary was built with.
func (c Config) CheckPrecision() error {
	if c.Precision == "" || c.Precision == pmefft.BuildPrecision() {
		return nil
	}

	return fmt.Errorf("%w: config wants %s, binary built for %s", pmefft.ErrPrecisionMismatch, c.Precision, pmefft.BuildPrecision())
}

// Logging converts the log section to a logging.Config.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:       c.Log.Level,
		Development: c.Log.Development,
		File:        c.Log.File,
		MaxSizeMB:   c.Log.MaxSizeMB,
		MaxBackups:  c.Log.MaxBackups,
		MaxAgeDays:  c.Log.MaxAgeDays,
		Compress:    c.Log.Compress,
	}
}
