package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "leapfrog" {
		t.Errorf("expected integrator leapfrog, got %s", cfg.Integrator)
	}
	if cfg.Timestep.Step != 1.0/80 {
		t.Errorf("expected step 1/80, got %v", cfg.Timestep.Step)
	}
	if cfg.Anchor.X != 300 || cfg.Anchor.Y != 300 {
		t.Errorf("anchor at (%v, %v), want (300, 300)", cfg.Anchor.X, cfg.Anchor.Y)
	}
	if len(cfg.Orbiters) != 1 || cfg.Orbiters[0].Y != 400 {
		t.Errorf("expected one orbiter 100 units above the anchor, got %+v", cfg.Orbiters)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad direction", func(c *Config) { c.Direction = "sideways" }},
		{"bad anchor mode", func(c *Config) { c.AnchorMode = "floating" }},
		{"bad timestep mode", func(c *Config) { c.Timestep.Mode = "adaptive" }},
		{"zero step", func(c *Config) { c.Timestep.Step = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"zero g", func(c *Config) { c.Gravity.G = 0 }},
		{"no orbiters", func(c *Config) { c.Orbiters = nil }},
		{"duplicate name", func(c *Config) { c.Orbiters[0].Name = "sun" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnchorMode = "mobile"
	cfg.Timestep.Mode = "variable"
	cfg.Timestep.MaxSubsteps = 0

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.AnchorMode != sim.AnchorMobile {
		t.Errorf("AnchorMode = %v, want mobile", opts.AnchorMode)
	}
	if opts.Timestep.Mode != sim.TimestepVariable {
		t.Errorf("Timestep.Mode = %v, want variable", opts.Timestep.Mode)
	}
	if opts.Timestep.MaxSubsteps != 1 {
		t.Errorf("MaxSubsteps = %d, want 1", opts.Timestep.MaxSubsteps)
	}
	if opts.Gravity.G != cfg.Gravity.G {
		t.Errorf("G = %v, want %v", opts.Gravity.G, cfg.Gravity.G)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.yaml")
	data := []byte("integrator: verlet\nduration: 12.5\nanchor:\n  name: sun\n  x: 10\n  y: 20\n  mass: 5000\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Integrator != "verlet" || cfg.Duration != 12.5 {
		t.Errorf("got integrator %s duration %v", cfg.Integrator, cfg.Duration)
	}
	if cfg.Anchor.Mass != 5000 || cfg.Anchor.X != 10 {
		t.Errorf("anchor not loaded: %+v", cfg.Anchor)
	}
	if cfg.Timestep.Step != DefaultStep {
		t.Errorf("unset step should keep default, got %v", cfg.Timestep.Step)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("wide")

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Orbiters) != 2 || loaded.Orbiters[1].Name != "mars" {
		t.Errorf("orbiters = %+v", loaded.Orbiters)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.AnchorMode != "mobile" {
		t.Errorf("expected mobile anchor, got %s", cfg.AnchorMode)
	}

	cfg.Orbiters[0].Mass = 1
	if GetPreset("binary").Orbiters[0].Mass == 1 {
		t.Error("GetPreset must return a copy")
	}
}

func TestBinaryPresetMomentum(t *testing.T) {
	cfg := GetPreset("binary")
	a, o := cfg.Anchor, cfg.Orbiters[0]

	px := a.Mass*a.VX + o.Mass*o.VX
	py := a.Mass*a.VY + o.Mass*o.VY
	if math.Abs(px) > 1e-6*o.Mass*o.VX || py != 0 {
		t.Errorf("momentum = (%v, %v), want zero", px, py)
	}
	if o.AutoOrbit {
		t.Error("binary orbiter should carry its own velocity")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"binary", "classic", "heavy", "light", "wide"}
	if len(presets) != len(want) {
		t.Fatalf("ListPresets() = %v, want %v", presets, want)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("ListPresets()[%d] = %s, want %s", i, presets[i], want[i])
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
