// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/pipeline"
)

// Config is the process configuration.
type Config struct {
	Addr        string `env:"GESTEASY_ADDR"         envDefault:":8080"`
	DataDir     string `env:"GESTEASY_DATA_DIR"`
	PluginDir   string `env:"GESTEASY_PLUGIN_DIR"`
	WebDir      string `env:"GESTEASY_WEB_DIR"`
	CameraID    int    `env:"GESTEASY_CAMERA_ID"    envDefault:"0"`
	FPS         int    `env:"GESTEASY_FPS"          envDefault:"30"`
	StartActive bool   `env:"GESTEASY_START_ACTIVE" envDefault:"false"`
	Tray        bool   `env:"GESTEASY_TRAY"         envDefault:"true"`

	Pipeline Pipeline
}

// Pipeline mirrors pipeline.Config in environment-friendly form.
type Pipeline struct {
	ProcessNoise      float64       `env:"GESTEASY_PROCESS_NOISE"        envDefault:"0.1"`
	MeasurementNoise  float64       `env:"GESTEASY_MEASUREMENT_NOISE"    envDefault:"0.01"`
	SeedFromFirst     bool          `env:"GESTEASY_SEED_FROM_FIRST"      envDefault:"false"`
	VIndexAngleRange  []float64     `env:"GESTEASY_V_INDEX_ANGLE_RANGE"  envDefault:"-110,-90" envSeparator:","`
	VMiddleAngleRange []float64     `env:"GESTEASY_V_MIDDLE_ANGLE_RANGE" envDefault:"-100,-80" envSeparator:","`
	VDistanceRange    []float64     `env:"GESTEASY_V_DISTANCE_RANGE"     envDefault:"40,100"   envSeparator:","`
	PinchDistance     float64       `env:"GESTEASY_PINCH_DISTANCE"       envDefault:"30"`
	ConfirmFrames     int           `env:"GESTEASY_CONFIRM_FRAMES"       envDefault:"5"`
	ConfirmCooldown   time.Duration `env:"GESTEASY_CONFIRM_COOLDOWN"     envDefault:"300ms"`
	ClickSuppress     time.Duration `env:"GESTEASY_CLICK_SUPPRESS"       envDefault:"300ms"`
	SourceWidth       int           `env:"GESTEASY_SOURCE_WIDTH"         envDefault:"640"`
	SourceHeight      int           `env:"GESTEASY_SOURCE_HEIGHT"        envDefault:"480"`
	SurfaceWidth      int           `env:"GESTEASY_SURFACE_WIDTH"        envDefault:"1920"`
	SurfaceHeight     int           `env:"GESTEASY_SURFACE_HEIGHT"       envDefault:"1080"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".gesteasy")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(cfg.DataDir, "plugins")
	}
	if cfg.FPS <= 0 {
		return Config{}, fmt.Errorf("GESTEASY_FPS must be positive, got %d", cfg.FPS)
	}

	if _, err := cfg.PipelineConfig(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "gesteasy.db")
}

// FrameInterval returns the scheduler tick for the configured frame rate.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// PipelineConfig converts and validates the pipeline settings.
func (c Config) PipelineConfig() (pipeline.Config, error) {
	p := c.Pipeline

	index, err := toRange("GESTEASY_V_INDEX_ANGLE_RANGE", p.VIndexAngleRange)
	if err != nil {
		return pipeline.Config{}, err
	}
	middle, err := toRange("GESTEASY_V_MIDDLE_ANGLE_RANGE", p.VMiddleAngleRange)
	if err != nil {
		return pipeline.Config{}, err
	}
	dist, err := toRange("GESTEASY_V_DISTANCE_RANGE", p.VDistanceRange)
	if err != nil {
		return pipeline.Config{}, err
	}

	cfg := pipeline.Config{
		ProcessNoise:             p.ProcessNoise,
		MeasurementNoise:         p.MeasurementNoise,
		SeedFromFirstMeasurement: p.SeedFromFirst,
		Thresholds: gesture.Thresholds{
			IndexAngle:    index,
			MiddleAngle:   middle,
			VDistance:     dist,
			PinchDistance: p.PinchDistance,
		},
		ConfirmFrames:   p.ConfirmFrames,
		ConfirmCooldown: p.ConfirmCooldown,
		ClickSuppress:   p.ClickSuppress,
		SourceWidth:     p.SourceWidth,
		SourceHeight:    p.SourceHeight,
		SurfaceWidth:    p.SurfaceWidth,
		SurfaceHeight:   p.SurfaceHeight,
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return cfg, nil
}

func toRange(name string, v []float64) (gesture.Range, error) {
	if len(v) != 2 {
		return gesture.Range{}, fmt.Errorf("%w: %s needs exactly two values, got %d", pipeline.ErrInvalidConfig, name, len(v))
	}
	return gesture.Range{Min: v[0], Max: v[1]}, nil
}
