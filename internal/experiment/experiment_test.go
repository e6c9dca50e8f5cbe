package experiment

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	want := []string{"euler", "leapfrog", "rk4", "verlet"}
	got := r.ListIntegrators()
	if len(got) != len(want) {
		t.Fatalf("ListIntegrators() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListIntegrators()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := r.GetIntegrator("rk45", physics.DefaultGravity(), physics.Clockwise); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if _, err := r.GetMetric("entropy", physics.DefaultGravity()); err == nil {
		t.Error("expected error for unknown metric")
	}
	if n := len(r.DefaultMetrics(physics.DefaultGravity())); n != 4 {
		t.Errorf("DefaultMetrics() returned %d metrics, want 4", n)
	}
}

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 1
	return cfg
}

func TestExperimentRun(t *testing.T) {
	exp := New(shortConfig())
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.StepsTaken != 80 {
		t.Errorf("StepsTaken = %d, want 80", result.StepsTaken)
	}
	for _, name := range []string{"energy", "energy_drift", "radius_deviation", "closest_approach"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if dev := result.Metrics["radius_deviation"]; dev > 1e-3 {
		t.Errorf("radius_deviation = %v, want a near-circular orbit", dev)
	}
	if exp.System().Anchor().Position != (dynamo.Vector2{X: 300, Y: 300}) {
		t.Errorf("fixed anchor moved to %v", exp.System().Anchor().Position)
	}
}

func TestExperimentRunBeforeSetup(t *testing.T) {
	if _, err := New(shortConfig()).Run(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestExperimentSetupErrors(t *testing.T) {
	t.Run("unknown integrator", func(t *testing.T) {
		cfg := shortConfig()
		cfg.Integrator = "rk45"
		err := New(cfg).Setup()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "unknown integrator") {
			t.Errorf("err = %v, want unknown integrator", err)
		}
	})

	t.Run("massless body", func(t *testing.T) {
		cfg := shortConfig()
		cfg.Orbiters[0].Mass = 0
		err := New(cfg).Setup()
		if !errors.Is(err, dynamo.ErrNonPositiveMass) {
			t.Errorf("err = %v, want ErrNonPositiveMass", err)
		}
	})

	t.Run("unknown metric", func(t *testing.T) {
		if err := New(shortConfig()).Setup("entropy"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestQueuedActionAppliesOnNextTick(t *testing.T) {
	exp := New(shortConfig())
	if err := exp.Setup("energy"); err != nil {
		t.Fatal(err)
	}
	anchor := exp.System().Anchor()

	exp.Queue().Push(control.Increase)
	if anchor.Mass != config.StarMass {
		t.Fatalf("mass changed before the tick: %v", anchor.Mass)
	}

	if err := exp.System().Tick(exp.Config().Timestep.Step); err != nil {
		t.Fatal(err)
	}

	want := config.StarMass * 1.1
	if math.Abs(anchor.Mass-want) > want*1e-12 {
		t.Errorf("Mass = %v, want %v", anchor.Mass, want)
	}
	if anchor.Radius != config.StarRadius+1 {
		t.Errorf("Radius = %v, want %v", anchor.Radius, config.StarRadius+1)
	}
}

func TestBinaryBarycenterStaysPut(t *testing.T) {
	exp := New(config.GetPreset("binary"))
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	s := exp.System()

	center := func() dynamo.Vector2 {
		a, o := s.Anchor(), s.Orbiters()[0]
		m := a.Mass + o.Mass
		return a.Position.Scale(a.Mass / m).Add(o.Position.Scale(o.Mass / m))
	}
	start := center()

	for n := 0; n < 400; n++ {
		if err := s.Tick(exp.Config().Timestep.Step); err != nil {
			t.Fatal(err)
		}
	}

	end := center()
	if d := math.Hypot(end.X-start.X, end.Y-start.Y); d > 1e-6 {
		t.Errorf("barycenter moved %v after %d ticks", d, s.Ticks())
	}
}

type tickCounter struct{ n int }

func (c *tickCounter) OnTick(dynamo.Frame) { c.n++ }

func TestExperimentReset(t *testing.T) {
	exp := New(shortConfig())
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	counter := &tickCounter{}
	exp.AddObserver(counter)

	exp.Control().Increase(exp.System().Anchor())
	exp.System().Tick(0.1)

	if err := exp.Reset(); err != nil {
		t.Fatal(err)
	}
	if exp.System().Ticks() != 0 {
		t.Errorf("Ticks() after reset = %d, want 0", exp.System().Ticks())
	}
	if exp.System().Anchor().Mass != config.StarMass {
		t.Errorf("Mass after reset = %v, want %v", exp.System().Anchor().Mass, config.StarMass)
	}

	exp.System().Tick(0.1)
	if counter.n != 2 {
		t.Errorf("observer saw %d ticks, want 2", counter.n)
	}
}
