package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/pmefft"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.toml", `
backend = "mock"
iterations = 3

[log]
level = "debug"

[[grids]]
name = "coulomb"
nfft1 = 8
nfft2 = 8
nfft3 = 8

[[grids]]
name = "dispersion"
nfft1 = 16
nfft2 = 16
nfft3 = 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Iterations != 3 || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}

	if len(cfg.Grids) != 2 || cfg.Grids[1].Shape() != (pmefft.Shape{X: 16, Y: 16, Z: 8}) {
		t.Fatalf("grids = %+v", cfg.Grids)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.yaml", `
backend: mock
precision: double
grids:
  - name: pme
    nfft1: 4
    nfft2: 4
    nfft3: 4
log:
  level: warn
  file: /tmp/pmefft.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Grids) != 1 || cfg.Grids[0].Shape() != (pmefft.Shape{X: 4, Y: 4, Z: 4}) {
		t.Fatalf("grids = %+v", cfg.Grids)
	}

	if cfg.Iterations != 1 {
		t.Errorf("Iterations default = %d, want 1", cfg.Iterations)
	}

	if lc := cfg.Logging(); lc.Level != "warn" || lc.File != "/tmp/pmefft.log" {
		t.Errorf("Logging = %+v", lc)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", "a.toml", "backend = \"mock\"\ncolour = \"red\"\n", "unknown key"},
		{"unknown yaml key", "a.yaml", "backend: mock\ncolour: red\n", "colour"},
		{"zero dimension", "a.toml", "[[grids]]\nnfft1 = 0\nnfft2 = 4\nnfft3 = 4\n", "grid[0]"},
		{"bad precision", "a.toml", "precision = \"quad\"\n", "precision"},
		{"bad level", "a.yaml", "log:\n  level: shouty\n", "log level"},
		{"no iterations", "a.toml", "iterations = 0\n", "iterations"},
	}

	for _, tt := range tests {
		_, err := Load(writeFile(t, tt.file, tt.content))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}

	if _, err := Load(writeFile(t, "run.json", "{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("json err = %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoadGridMissingDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{"run.toml", "[[grids]]\nnfft1 = 8\nnfft2 = 8\n"},
		{"run.yaml", "grids:\n  - nfft1: 8\n    nfft2: 8\n"},
	}

	for _, tt := range tests {
		cfg, err := Load(writeFile(t, tt.file, tt.content))
		if !errors.Is(err, pmefft.ErrInvalidShape) {
			t.Errorf("%s: err = %v, grids = %+v, want ErrInvalidShape", tt.file, err, cfg.Grids)
		}
	}
}

func TestLoadWithoutGridsKeepsDefault(t *testing.T) {
	t.Parallel()

	want := Default().Grids

	tests := []struct {
		file    string
		content string
	}{
		{"run.toml", "iterations = 2\n"},
		{"run.yaml", "iterations: 2\n"},
		{"empty.yaml", ""},
	}

	for _, tt := range tests {
		cfg, err := Load(writeFile(t, tt.file, tt.content))
		if err != nil {
			t.Errorf("%s: Load: %v", tt.file, err)
			continue
		}

		if len(cfg.Grids) != len(want) || cfg.Grids[0] != want[0] {
			t.Errorf("%s: grids = %+v, want %+v", tt.file, cfg.Grids, want)
		}
	}
}

func TestLoadExplicitEmptyGridsRejected(t *testing.T) {
	t.Parallel()

	for _, f := range []struct{ name, content string }{
		{"run.toml", "grids = []\n"},
		{"run.yaml", "grids: []\n"},
	} {
		if _, err := Load(writeFile(t, f.name, f.content)); err == nil || !strings.Contains(err.Error(), "no grids") {
			t.Errorf("%s: err = %v, want no grids", f.name, err)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dotenv := writeFile(t, ".env", "PMEFFT_LOG_FILE=/var/log/pmefft.log\nPMEFFT_DEVICE=0\n")
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvLogFile)
		_ = os.Unsetenv(EnvDevice)
	})

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvBackend, " mock ")

	cfg := Default()
	if err := LoadEnv(&cfg, dotenv, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	if cfg.Log.Level != "error" || cfg.Backend != "mock" || cfg.Log.File != "/var/log/pmefft.log" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadEnvRejectsBadDevice(t *testing.T) {
	t.Setenv(EnvDevice, "first")

	cfg := Default()
	if err := LoadEnv(&cfg); err == nil {
		t.Fatal("LoadEnv accepted a non-numeric device")
	}
}

func TestCheckPrecision(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.CheckPrecision(); err != nil {
		t.Fatalf("empty precision: %v", err)
	}

	cfg.Precision = pmefft.BuildPrecision()
	if err := cfg.CheckPrecision(); err != nil {
		t.Fatalf("matching precision: %v", err)
	}

	cfg.Precision = "single"
	if pmefft.BuildPrecision() == "single" {
		cfg.Precision = "double"
	}

	if err := cfg.CheckPrecision(); !errors.Is(err, pmefft.ErrPrecisionMismatch) {
		t.Fatalf("mismatch err = %v", err)
	}
}
