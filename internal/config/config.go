package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	FieldWidth  = 600.0
	FieldHeight = 600.0

	DefaultStep        = 1.0 / 80
	DefaultMaxStep     = 0.05
	DefaultMaxSubsteps = 8
	DefaultDuration    = 60.0

	StarMass   = 1.989e13
	StarRadius = 15.0
	EarthMass  = 1e9
	EarthAlt   = 100.0
)

type Config struct {
	Name        string            `yaml:"name"`
	Integrator  string            `yaml:"integrator"`
	Direction   string            `yaml:"direction"`
	AnchorMode  string            `yaml:"anchor_mode"`
	Gravity     GravityConfig     `yaml:"gravity"`
	Timestep    TimestepConfig    `yaml:"timestep"`
	Duration    float64           `yaml:"duration"`
	SampleEvery int               `yaml:"sample_every"`
	Anchor      BodyConfig        `yaml:"anchor"`
	Orbiters    []BodyConfig      `yaml:"orbiters"`
	MassControl MassControlConfig `yaml:"mass_control"`
}

type GravityConfig struct {
	G             float64 `yaml:"g"`
	MinSeparation float64 `yaml:"min_separation"`
}

type TimestepConfig struct {
	Mode        string  `yaml:"mode"`
	Step        float64 `yaml:"step"`
	MaxStep     float64 `yaml:"max_step"`
	MaxSubsteps int     `yaml:"max_substeps"`
}

type BodyConfig struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Mass      float64 `yaml:"mass"`
	Radius    float64 `yaml:"radius"`
	Color     string  `yaml:"color"`
	AutoOrbit bool    `yaml:"auto_orbit"`
}

type MassControlConfig struct {
	Fraction   float64 `yaml:"fraction"`
	RadiusStep float64 `yaml:"radius_step"`
	MinRadius  float64 `yaml:"min_radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "classic",
		Integrator: "leapfrog",
		Direction:  "clockwise",
		AnchorMode: "fixed",
		Gravity: GravityConfig{
			G:             physics.DefaultG,
			MinSeparation: physics.DefaultMinSeparation,
		},
		Timestep: TimestepConfig{
			Mode:        "fixed",
			Step:        DefaultStep,
			MaxStep:     DefaultMaxStep,
			MaxSubsteps: DefaultMaxSubsteps,
		},
		Duration:    DefaultDuration,
		SampleEvery: 1,
		Anchor: BodyConfig{
			Name:   "sun",
			X:      FieldWidth / 2,
			Y:      FieldHeight / 2,
			Mass:   StarMass,
			Radius: StarRadius,
			Color:  "#FFBF00",
		},
		Orbiters: []BodyConfig{{
			Name:      "earth",
			X:         FieldWidth / 2,
			Y:         FieldHeight/2 + EarthAlt,
			Mass:      EarthMass,
			Radius:    5,
			Color:     "#0000FF",
			AutoOrbit: true,
		}},
		MassControl: MassControlConfig{
			Fraction:   0.1,
			RadiusStep: 1,
			MinRadius:  1,
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

// Clone returns a copy that shares no slices with c.
func (c *Config) Clone() *Config {
	out := *c
	out.Orbiters = append([]BodyConfig(nil), c.Orbiters...)
	return &out
}

func (c *Config) Validate() error {
	if _, err := physics.ParseDirection(c.Direction); err != nil {
		return err
	}
	if _, err := sim.ParseAnchorMode(c.AnchorMode); err != nil {
		return err
	}
	if _, err := sim.ParseTimestepMode(c.Timestep.Mode); err != nil {
		return err
	}
	if c.Timestep.Step <= 0 {
		return fmt.Errorf("timestep.step must be positive, got %v", c.Timestep.Step)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Gravity.G <= 0 {
		return fmt.Errorf("gravity.g must be positive, got %v", c.Gravity.G)
	}
	if len(c.Orbiters) == 0 {
		return fmt.Errorf("at least one orbiter is required")
	}
	seen := map[string]bool{c.Anchor.Name: true}
	for _, o := range c.Orbiters {
		if o.Name == "" {
			return fmt.Errorf("orbiter without a name")
		}
		if seen[o.Name] {
			return fmt.Errorf("duplicate body name %q", o.Name)
		}
		seen[o.Name] = true
	}
	return nil
}

// Options converts the physics and timestep sections for sim.New.
func (c *Config) Options() (sim.Options, error) {
	if err := c.Validate(); err != nil {
		return sim.Options{}, err
	}
	anchor, _ := sim.ParseAnchorMode(c.AnchorMode)
	mode, _ := sim.ParseTimestepMode(c.Timestep.Mode)

	opts := sim.DefaultOptions()
	opts.Gravity = physics.Gravity{G: c.Gravity.G, MinSeparation: c.Gravity.MinSeparation}
	opts.AnchorMode = anchor
	opts.Timestep = sim.Timestep{
		Mode:        mode,
		Step:        c.Timestep.Step,
		MaxStep:     c.Timestep.MaxStep,
		MaxSubsteps: c.Timestep.MaxSubsteps,
	}
	if opts.Timestep.MaxStep <= 0 {
		opts.Timestep.MaxStep = c.Timestep.Step
	}
	if opts.Timestep.MaxSubsteps < 1 {
		opts.Timestep.MaxSubsteps = 1
	}
	return opts, nil
}
