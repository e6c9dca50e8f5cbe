package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Scenario is a scripted run: a preset plus mass actions fired at given
// simulation times.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Integrator  string  `yaml:"integrator"`
	Duration    float64 `yaml:"duration"`
	Events      []Event `yaml:"events"`
}

// Event fires Action Repeat times (at least once) on the first tick at or
// after At seconds.
type Event struct {
	At     float64 `yaml:"at"`
	Action string  `yaml:"action"`
	Repeat int     `yaml:"repeat"`
}

// timeSlack absorbs rounding in the accumulated simulation clock.
const timeSlack = 1e-9

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("unknown preset: %s", sc.Preset)
	}
	for i, ev := range sc.Events {
		if _, err := control.ParseAction(ev.Action); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		if ev.At < 0 {
			return fmt.Errorf("event %d: negative time %v", i+1, ev.At)
		}
	}
	return nil
}

// Config resolves the scenario's preset and overrides.
func (sc *Scenario) Config() *config.Config {
	cfg := config.DefaultConfig()
	if sc.Preset != "" {
		if p := config.GetPreset(sc.Preset); p != nil {
			cfg = p
		}
	}
	if sc.Integrator != "" {
		cfg.Integrator = sc.Integrator
	}
	if sc.Duration > 0 {
		cfg.Duration = sc.Duration
	}
	return cfg
}

// RunScenario attaches the scenario's events to exp, which must already be
// set up, and runs it to completion.
func RunScenario(ctx context.Context, sc *Scenario, exp *experiment.Experiment) (*dynamo.Result, error) {
	if exp.System() == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	events := append([]Event(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	next := 0
	exp.System().AddHook(func(s *sim.System) error {
		for next < len(events) && s.Time()+timeSlack >= events[next].At {
			ev := events[next]
			next++

			action, _ := control.ParseAction(ev.Action)
			n := max(ev.Repeat, 1)
			for i := 0; i < n; i++ {
				if err := exp.Control().Apply(s.Anchor(), action); err != nil {
					return err
				}
			}
			log.Debug("scenario event", "t", s.Time(), "action", action, "times", n, "mass", s.Anchor().Mass)
		}
		return nil
	})

	log.Info("running scenario", "name", sc.Name, "events", len(events))
	return exp.Run(ctx)
}
