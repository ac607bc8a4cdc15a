// Package config provides configuration loading and access for the stem generator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/stem/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Stem      StemConfig      `yaml:"stem"`
	Stems     []StemInstance  `yaml:"stems"`
	Growth    GrowthConfig    `yaml:"growth"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Noise     NoiseConfig     `yaml:"noise"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Seconds per headless tick
}

// StemConfig holds the parameters new stems start with.
type StemConfig struct {
	Params components.Params `yaml:",inline"`
}

// StemInstance describes a stem placed at startup.
type StemInstance struct {
	Name   string            `yaml:"name"`
	Base   [3]float64        `yaml:"base"` // Base position x, y, z
	Params components.Params `yaml:"params"`
}

// GrowthConfig holds the fixed constants of the growth simulation.
type GrowthConfig struct {
	LengthPerAge   float64 `yaml:"length_per_age"`  // Target length = this * age
	PointsPerUnit  float64 `yaml:"points_per_unit"` // Centerline density
	RisePerPoint   float64 `yaml:"rise_per_point"`  // Vertical spacing of centerline points
	NoiseFrequency float64 `yaml:"noise_frequency"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"`
	Epsilon        float64 `yaml:"epsilon"` // Relative tolerance for change detection
}

// MeshConfig holds tube resolution.
type MeshConfig struct {
	HeightSegments int `yaml:"height_segments"`
	RadialSegments int `yaml:"radial_segments"`
}

// NoiseConfig selects the lateral noise source.
type NoiseConfig struct {
	Kind string `yaml:"kind"` // perlin or opensimplex
	Seed int64  `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds between perf log lines
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.normalize()
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects structural errors. Stem parameters are clamped, not validated.
func (c *Config) validate() error {
	if c.Physics.DT < 0 {
		return fmt.Errorf("physics.dt must be >= 0, got %v", c.Physics.DT)
	}
	if c.Mesh.HeightSegments < 1 {
		return fmt.Errorf("mesh.height_segments must be >= 1, got %d", c.Mesh.HeightSegments)
	}
	if c.Mesh.RadialSegments < 1 {
		return fmt.Errorf("mesh.radial_segments must be >= 1, got %d", c.Mesh.RadialSegments)
	}
	switch c.Noise.Kind {
	case "perlin", "opensimplex":
	default:
		return fmt.Errorf("noise.kind: unknown kind %q", c.Noise.Kind)
	}
	if c.Growth.PointsPerUnit <= 0 {
		return fmt.Errorf("growth.points_per_unit must be > 0, got %v", c.Growth.PointsPerUnit)
	}
	return nil
}

// normalize clamps every stem parameter into range and names unnamed stems.
func (c *Config) normalize() {
	c.Stem.Params = c.Stem.Params.Clamped()
	for i := range c.Stems {
		s := &c.Stems[i]
		s.Params = s.Params.Clamped()
		if s.Name == "" {
			s.Name = fmt.Sprintf("stem-%d", i)
		}
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StatsWindowTicks = 0
	if c.Physics.DT > 0 {
		c.Derived.StatsWindowTicks = int(c.Telemetry.StatsWindow / c.Physics.DT)
	}
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
