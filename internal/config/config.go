package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/rain"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/waves"
)

const (
	DefaultFrameDt        = 1.0 / 60
	DefaultDuration       = 10.0
	DefaultNoiseFrequency = 0.05
	DefaultStabilityLimit = 50.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Physics PhysicsConfig `yaml:"physics"`
	Run     RunConfig     `yaml:"run"`
	Rain    RainConfig    `yaml:"rain"`
}

type GridConfig struct {
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	SpatialStep float64 `yaml:"spatial_step"`
}

type PhysicsConfig struct {
	TimeStep float64 `yaml:"time_step"`
	Speed    float64 `yaml:"speed"`
	Damping  float64 `yaml:"damping"`
}

type RunConfig struct {
	FrameDt  float64 `yaml:"frame_dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	// Splash disturbs the grid centre before the first frame when non-zero.
	Splash   float64 `yaml:"splash"`
	ProbeRow int     `yaml:"probe_row"`
	ProbeCol int     `yaml:"probe_col"`
}

type RainConfig struct {
	Pattern        string  `yaml:"pattern"`
	Interval       float64 `yaml:"interval"`
	Margin         int     `yaml:"margin"`
	MinMagnitude   float64 `yaml:"min_magnitude"`
	MaxMagnitude   float64 `yaml:"max_magnitude"`
	NoiseFrequency float64 `yaml:"noise_frequency"`
}

// DefaultConfig is the lighting demo: a 160x160 pond with random rain.
func DefaultConfig() *Config {
	p := waves.DefaultParams()
	r := rain.DefaultConfig()
	return &Config{
		Grid:    GridConfig{Rows: p.Rows, Cols: p.Cols, SpatialStep: p.SpatialStep},
		Physics: PhysicsConfig{TimeStep: p.TimeStep, Speed: p.Speed, Damping: p.Damping},
		Run: RunConfig{
			FrameDt:  DefaultFrameDt,
			Duration: DefaultDuration,
			ProbeRow: -1,
			ProbeCol: -1,
		},
		Rain: RainConfig{
			Pattern:        "random",
			Interval:       r.Interval,
			Margin:         r.Margin,
			MinMagnitude:   r.MinMagnitude,
			MaxMagnitude:   r.MaxMagnitude,
			NoiseFrequency: DefaultNoiseFrequency,
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

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Params() waves.Params {
	return waves.Params{
		Rows:        c.Grid.Rows,
		Cols:        c.Grid.Cols,
		SpatialStep: c.Grid.SpatialStep,
		TimeStep:    c.Physics.TimeStep,
		Speed:       c.Physics.Speed,
		Damping:     c.Physics.Damping,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		FrameDt:       c.Run.FrameDt,
		Duration:      c.Run.Duration,
		ValidateState: true,
		ProbeRow:      c.Run.ProbeRow,
		ProbeCol:      c.Run.ProbeCol,
	}
}

func (c *Config) rainConfig(seed int64) rain.Config {
	return rain.Config{
		Interval:     c.Rain.Interval,
		Margin:       c.Rain.Margin,
		MinMagnitude: c.Rain.MinMagnitude,
		MaxMagnitude: c.Rain.MaxMagnitude,
		Seed:         seed,
	}
}

// RainSource builds the configured disturbance source seeded with seed.
func (c *Config) RainSource(seed int64) (rain.Source, error) {
	switch c.Rain.Pattern {
	case "", "none":
		return rain.NewNone(), nil
	case "random":
		return rain.NewRandom(c.rainConfig(seed)), nil
	case "noise":
		return rain.NewNoise(c.rainConfig(seed), c.Rain.NoiseFrequency), nil
	default:
		return nil, fmt.Errorf("%w: unknown rain pattern %q", ErrInvalidConfig, c.Rain.Pattern)
	}
}

// NewField initializes a field and applies the opening splash.
func (c *Config) NewField() (*waves.Field, error) {
	f, err := waves.New(c.Params())
	if err != nil {
		return nil, err
	}
	if c.Run.Splash != 0 {
		f.Disturb(c.Grid.Rows/2, c.Grid.Cols/2, float32(c.Run.Splash))
	}
	return f, nil
}

// Validate checks every section. Grid and physics errors wrap
// waves.ErrInvalidParams, the rest wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if !(c.Run.FrameDt > 0) {
		return fmt.Errorf("%w: frame_dt must be positive, got %g", ErrInvalidConfig, c.Run.FrameDt)
	}
	if !(c.Run.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Run.Duration)
	}
	if c.Run.ProbeRow >= c.Grid.Rows || c.Run.ProbeCol >= c.Grid.Cols {
		return fmt.Errorf("%w: probe (%d,%d) outside %dx%d grid", ErrInvalidConfig,
			c.Run.ProbeRow, c.Run.ProbeCol, c.Grid.Rows, c.Grid.Cols)
	}
	if c.Rain.Interval < 0 || c.Rain.Margin < 0 {
		return fmt.Errorf("%w: rain interval and margin must be non-negative", ErrInvalidConfig)
	}
	if c.Rain.MaxMagnitude < c.Rain.MinMagnitude {
		return fmt.Errorf("%w: rain max_magnitude %g below min_magnitude %g", ErrInvalidConfig,
			c.Rain.MaxMagnitude, c.Rain.MinMagnitude)
	}
	if _, err := c.RainSource(0); err != nil {
		return err
	}
	return nil
}
