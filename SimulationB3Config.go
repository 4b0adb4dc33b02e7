package box3d

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrB3UnknownShape     = errors.New("box3d: unknown shape")
	ErrB3InvalidBody      = errors.New("box3d: invalid body")
	ErrB3RegistryMismatch = errors.New("box3d: registry and world disagree on membership")
	ErrB3InvalidConfig    = errors.New("box3d: invalid config")
)

/// Settings of a simulation context, loadable from TOML.
type B3WorldConfig struct {
	World    B3WorldSettings    `toml:"world"`
	SoftBody B3SoftBodySettings `toml:"soft_body"`
	Logging  B3LoggingConfig    `toml:"logging"`
}

type B3WorldSettings struct {
	Gravity          [3]float64 `toml:"gravity"`
	TimeStep         float64    `toml:"time_step"`     // outer step handed to StepSimulation
	MaxSubSteps      int        `toml:"max_sub_steps"` // cap on fixed sub-steps per update
	SolverIterations int        `toml:"solver_iterations"`
	ParallelDispatch bool       `toml:"parallel_dispatch"`
}

type B3SoftBodySettings struct {
	AirDensity    float64    `toml:"air_density"`
	WaterDensity  float64    `toml:"water_density"`
	WaterOffset   float64    `toml:"water_offset"`
	WaterNormal   [3]float64 `toml:"water_normal"`
	SdfHashSize   int        `toml:"sdf_hash_size"`
	SdfClampCells int        `toml:"sdf_clamp_cells"`
}

type B3LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func DefaultB3WorldConfig() B3WorldConfig {
	return B3WorldConfig{
		World: B3WorldSettings{
			Gravity:          [3]float64{0, -10, 0},
			TimeStep:         B3_updateTimeStep,
			MaxSubSteps:      B3_updateMaxSubSteps,
			SolverIterations: B3_defaultSolverIterations,
			ParallelDispatch: true,
		},
		SoftBody: B3SoftBodySettings{
			AirDensity:    1.2,
			SdfHashSize:   2383,
			SdfClampCells: 256 * 1024,
		},
		Logging: B3LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

/// Reads a TOML file over the defaults and validates the result.
func LoadB3WorldConfig(path string) (B3WorldConfig, error) {
	cfg := DefaultB3WorldConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

/// Reports every out-of-range setting at once.
func (cfg B3WorldConfig) Validate() error {
	var err error
	if !(cfg.World.TimeStep > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: world.time_step must be positive, got %v", ErrB3InvalidConfig, cfg.World.TimeStep))
	}
	if cfg.World.MaxSubSteps < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: world.max_sub_steps must be at least 1, got %d", ErrB3InvalidConfig, cfg.World.MaxSubSteps))
	}
	if cfg.World.SolverIterations < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: world.solver_iterations must be at least 1, got %d", ErrB3InvalidConfig, cfg.World.SolverIterations))
	}
	if cfg.SoftBody.AirDensity < 0 || cfg.SoftBody.WaterDensity < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: soft_body densities must not be negative", ErrB3InvalidConfig))
	}
	if cfg.SoftBody.SdfHashSize < 1 || cfg.SoftBody.SdfClampCells < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: soft_body sdf sizes must be positive", ErrB3InvalidConfig))
	}
	return err
}

func (cfg B3WorldSettings) GetGravity() mgl64.Vec3 {
	return mgl64.Vec3(cfg.Gravity)
}

func (cfg B3SoftBodySettings) GetWaterNormal() mgl64.Vec3 {
	return mgl64.Vec3(cfg.WaterNormal)
}

/// Builds a zap logger: "json" gives the production encoder, anything else a
/// coloured console. Unknown levels fall back to info.
func (cfg B3LoggingConfig) NewLogger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
