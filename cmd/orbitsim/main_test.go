package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	preset, configFile = "", ""

	cfg, err := loadConfig(newTestCommand())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Name != "classic" {
		t.Errorf("Name = %s, want classic", cfg.Name)
	}
	if cfg.Integrator != "leapfrog" {
		t.Errorf("Integrator = %s, want leapfrog", cfg.Integrator)
	}
}

func TestLoadConfigFlagsOverridePreset(t *testing.T) {
	preset, configFile = "binary", ""
	defer func() { preset = "" }()

	cmd := newTestCommand()
	if err := cmd.Flags().Set("dt", "0.01"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("integrator", "verlet"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.AnchorMode != "mobile" {
		t.Errorf("AnchorMode = %s, want mobile from preset", cfg.AnchorMode)
	}
	if cfg.Timestep.Step != 0.01 {
		t.Errorf("Step = %v, want 0.01", cfg.Timestep.Step)
	}
	if cfg.Integrator != "verlet" {
		t.Errorf("Integrator = %s, want verlet", cfg.Integrator)
	}
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	preset, configFile = "nope", ""
	defer func() { preset = "" }()

	if _, err := loadConfig(newTestCommand()); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	preset, configFile = "", ""

	cmd := newTestCommand()
	if err := cmd.Flags().Set("anchor", "floating"); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected error for unknown anchor mode")
	}
}
