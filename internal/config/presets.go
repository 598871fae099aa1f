package config

// Presets are named ride programs selectable from the CLI.
var Presets = map[string]*Config{
	"gentle": {
		DriveMode: "motor", Timestep: DefaultTimestep,
		Geometry: DefaultConfig().Geometry,
		Ramp:     RampConfig{PlatformTau: 5.0, WindmillTau: 4.0, TiltTau: 6.0},
		Initial:  InitialConfig{PlatformSpeed: 0.25, WindmillSpeed: 0.5},
	},
	"showtime": {
		DriveMode: "motor", Timestep: DefaultTimestep,
		Geometry: DefaultConfig().Geometry,
		Ramp:     RampConfig{PlatformTau: 3.0, WindmillTau: 2.0, TiltTau: 4.0},
		Initial:  InitialConfig{PlatformSpeed: 0.5, WindmillSpeed: 1.0, TiltAngle: 0.35},
	},
	"full-tilt": {
		DriveMode: "motor", Timestep: DefaultTimestep,
		Geometry: DefaultConfig().Geometry,
		Ramp:     RampConfig{PlatformTau: 2.5, WindmillTau: 1.5, TiltTau: 3.0},
		Initial:  InitialConfig{PlatformSpeed: 0.6, WindmillSpeed: 1.2, TiltAngle: DefaultMaxTilt},
	},
	"maintenance": {
		DriveMode: "ramp", Timestep: DefaultTimestep,
		Geometry: DefaultConfig().Geometry,
		Ramp:     RampConfig{PlatformTau: 2.0, WindmillTau: 2.0, TiltTau: 4.0},
		Initial:  InitialConfig{PlatformSpeed: 0.1, WindmillSpeed: 0.2},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}
