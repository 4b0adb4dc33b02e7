package box3d_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByteArena/box3d"
	"go.uber.org/multierr"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadWorldConfig(t *testing.T) {
	path := writeTemp(t, "world.toml", `
[world]
gravity = [0.0, -9.81, 0.0]
max_sub_steps = 4
parallel_dispatch = false

[soft_body]
water_density = 1000.0
water_normal = [0.0, 1.0, 0.0]

[logging]
level = "debug"
format = "json"
`)

	cfg, err := box3d.LoadB3WorldConfig(path)
	if err != nil {
		t.Fatalf("LoadB3WorldConfig: %v", err)
	}
	if cfg.World.Gravity != [3]float64{0, -9.81, 0} || cfg.World.MaxSubSteps != 4 || cfg.World.ParallelDispatch {
		t.Fatalf("world section not applied: %+v", cfg.World)
	}
	if cfg.World.TimeStep != 1.0 || cfg.World.SolverIterations != 10 {
		t.Fatalf("unset keys must keep their defaults: %+v", cfg.World)
	}
	if cfg.SoftBody.AirDensity != 1.2 || cfg.SoftBody.WaterDensity != 1000 {
		t.Fatalf("soft_body section: %+v", cfg.SoftBody)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging section: %+v", cfg.Logging)
	}

	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	_ = logger.Sync()
}

func TestLoadWorldConfigErrors(t *testing.T) {
	if _, err := box3d.LoadB3WorldConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: got %v", err)
	}

	if _, err := box3d.LoadB3WorldConfig(writeTemp(t, "bad.toml", "[world\n")); err == nil {
		t.Fatalf("malformed TOML must fail")
	}

	path := writeTemp(t, "invalid.toml", `
[world]
time_step = 0.0
max_sub_steps = 0
solver_iterations = 0
`)
	_, err := box3d.LoadB3WorldConfig(path)
	if !errors.Is(err, box3d.ErrB3InvalidConfig) {
		t.Fatalf("expected ErrB3InvalidConfig, got %v", err)
	}
	if n := len(multierr.Errors(errors.Unwrap(err))); n != 3 {
		t.Fatalf("expected 3 aggregated problems, got %d: %v", n, err)
	}
}

func TestLoggerFallsBackToInfo(t *testing.T) {
	logger, err := box3d.B3LoggingConfig{Level: "chatty", Format: "console"}.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Fatalf("an unknown level must fall back to info")
	}
}
