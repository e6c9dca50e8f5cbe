package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"light": preset("light", func(c *Config) {
		c.Anchor.Mass = StarMass / 10
		c.Duration = 240
	}),
	"heavy": preset("heavy", func(c *Config) {
		c.Anchor.Mass = StarMass * 10
		c.Anchor.Radius = 20
		c.Duration = 60
	}),
	"binary": preset("binary", func(c *Config) {
		c.AnchorMode = "mobile"
		o := &c.Orbiters[0]
		o.Mass = StarMass / 4
		o.Radius = 10
		// Split the relative circular speed by mass so the pair's
		// momentum is zero and the barycenter stays put.
		total := c.Anchor.Mass + o.Mass
		v := math.Sqrt(c.Gravity.G * total / EarthAlt)
		o.AutoOrbit = false
		o.VX = v * c.Anchor.Mass / total
		c.Anchor.VX = -v * o.Mass / total
	}),
	"wide": preset("wide", func(c *Config) {
		c.Duration = 600
		c.SampleEvery = 8
		c.Orbiters = append(c.Orbiters, BodyConfig{
			Name:      "mars",
			X:         FieldWidth / 2,
			Y:         FieldHeight/2 + 220,
			Mass:      EarthMass / 10,
			Radius:    4,
			Color:     "#C1440E",
			AutoOrbit: true,
		})
	}),
}

func preset(name string, mutate func(*Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	mutate(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
