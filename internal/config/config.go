// Package config loads and saves ride configurations. The file schema
// mirrors engine.Config plus CLI concerns; engine and motor packages
// stay free of serialization.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivanstan/hully-gully-sub000/internal/engine"
)

const (
	DefaultTimestep        = 0.01
	DefaultCabinCount      = 8
	DefaultPlatformRadius  = 10.0
	DefaultWindmillRadius  = 4.0
	DefaultPivotRadius     = 6.0
	DefaultSecondaryOffset = 1.5
	DefaultMaxTilt         = 0.52 // rad, ~30°
)

type Config struct {
	DriveMode string  `yaml:"drive_mode"` // "motor" or "ramp"
	Timestep  float64 `yaml:"timestep"`

	Geometry GeometryConfig `yaml:"geometry"`
	Ramp     RampConfig     `yaml:"ramp"`
	Initial  InitialConfig  `yaml:"initial"`
}

type GeometryConfig struct {
	PlatformRadius  float64 `yaml:"platform_radius"`
	WindmillRadius  float64 `yaml:"windmill_radius"`
	PivotRadius     float64 `yaml:"pivot_radius"`
	SecondaryOffset float64 `yaml:"secondary_offset"`
	MinTiltAngle    float64 `yaml:"min_tilt_angle"`
	MaxTiltAngle    float64 `yaml:"max_tilt_angle"`
	CabinCount      int     `yaml:"cabin_count"`
}

type RampConfig struct {
	PlatformTau float64 `yaml:"platform_tau"`
	WindmillTau float64 `yaml:"windmill_tau"`
	TiltTau     float64 `yaml:"tilt_tau"`
}

type InitialConfig struct {
	PlatformSpeed float64 `yaml:"platform_speed"`
	WindmillSpeed float64 `yaml:"windmill_speed"`
	TiltAngle     float64 `yaml:"tilt_angle"`
}

func DefaultConfig() *Config {
	return &Config{
		DriveMode: "motor",
		Timestep:  DefaultTimestep,
		Geometry: GeometryConfig{
			PlatformRadius:  DefaultPlatformRadius,
			WindmillRadius:  DefaultWindmillRadius,
			PivotRadius:     DefaultPivotRadius,
			SecondaryOffset: DefaultSecondaryOffset,
			MinTiltAngle:    0,
			MaxTiltAngle:    DefaultMaxTilt,
			CabinCount:      DefaultCabinCount,
		},
		Ramp: RampConfig{
			PlatformTau: 3.0,
			WindmillTau: 2.0,
			TiltTau:     4.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Engine converts the file schema into the engine's immutable
// configuration.
func (c *Config) Engine() engine.Config {
	mode := engine.ModeMotor
	if c.DriveMode == "ramp" {
		mode = engine.ModeRamp
	}
	return engine.Config{
		PlatformRadius:       c.Geometry.PlatformRadius,
		WindmillRadius:       c.Geometry.WindmillRadius,
		PivotRadius:          c.Geometry.PivotRadius,
		SecondaryOffset:      c.Geometry.SecondaryOffset,
		MinTiltAngle:         c.Geometry.MinTiltAngle,
		MaxTiltAngle:         c.Geometry.MaxTiltAngle,
		CabinCount:           c.Geometry.CabinCount,
		FixedTimestep:        c.Timestep,
		PlatformRampTau:      c.Ramp.PlatformTau,
		WindmillRampTau:      c.Ramp.WindmillTau,
		TiltRampTau:          c.Ramp.TiltTau,
		DriveMode:            mode,
		InitialPlatformSpeed: c.Initial.PlatformSpeed,
		InitialWindmillSpeed: c.Initial.WindmillSpeed,
		InitialTiltAngle:     c.Initial.TiltAngle,
	}
}
