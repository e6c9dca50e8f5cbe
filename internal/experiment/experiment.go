package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Experiment turns a config into a ready-to-run system with the anchor's
// mass control attached.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	system    *sim.System
	control   *control.MassControl
	queue     *control.Queue
	metrics   []string
	observers []dynamo.Observer
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		queue:    control.NewQueue(),
	}
}

// Setup builds the bodies and the system. With no metric names every
// registered metric is attached.
func (e *Experiment) Setup(metricNames ...string) error {
	opts, err := e.cfg.Options()
	if err != nil {
		return err
	}
	dir, err := physics.ParseDirection(e.cfg.Direction)
	if err != nil {
		return err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator, opts.Gravity, dir)
	if err != nil {
		return err
	}

	anchor, orbiters, err := BuildBodies(e.cfg)
	if err != nil {
		return err
	}

	system, err := sim.New(anchor, orbiters, integ, opts)
	if err != nil {
		return err
	}

	if len(metricNames) == 0 {
		metricNames = e.registry.ListMetrics()
	}
	for _, name := range metricNames {
		m, err := e.registry.GetMetric(name, opts.Gravity)
		if err != nil {
			return err
		}
		system.AddMetric(m)
	}
	for _, o := range e.observers {
		system.AddObserver(o)
	}

	mc := control.NewMassControl(anchor.Mass)
	if f := e.cfg.MassControl.Fraction; f > 0 {
		mc.Fraction = f
	}
	if s := e.cfg.MassControl.RadiusStep; s > 0 {
		mc.RadiusStep = s
	}
	if r := e.cfg.MassControl.MinRadius; r > 0 {
		mc.MinRadius = r
	}

	system.AddHook(func(s *sim.System) error {
		for _, a := range e.queue.Drain() {
			if err := mc.Apply(s.Anchor(), a); err != nil {
				return err
			}
		}
		return nil
	})

	e.system = system
	e.control = mc
	e.metrics = metricNames
	return nil
}

// Reset rebuilds the system from the config, keeping metrics and observers.
func (e *Experiment) Reset() error {
	e.queue.Drain()
	return e.Setup(e.metrics...)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.system.Run(ctx, dynamo.Config{
		Dt:          e.cfg.Timestep.Step,
		Duration:    e.cfg.Duration,
		SampleEvery: e.cfg.SampleEvery,
	})
}

// AddObserver attaches o now and after every Reset.
func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.observers = append(e.observers, o)
	if e.system != nil {
		e.system.AddObserver(o)
	}
}

func (e *Experiment) System() *sim.System           { return e.system }
func (e *Experiment) Control() *control.MassControl { return e.control }
func (e *Experiment) Config() *config.Config        { return e.cfg }

// Queue accepts mass actions from any goroutine. They are applied to the
// anchor before the next tick.
func (e *Experiment) Queue() *control.Queue { return e.queue }

func BuildBodies(cfg *config.Config) (*dynamo.Body, []*dynamo.Body, error) {
	anchor, err := buildBody(cfg.Anchor)
	if err != nil {
		return nil, nil, err
	}

	orbiters := make([]*dynamo.Body, 0, len(cfg.Orbiters))
	for _, bc := range cfg.Orbiters {
		b, err := buildBody(bc)
		if err != nil {
			return nil, nil, err
		}
		orbiters = append(orbiters, b)
	}
	return anchor, orbiters, nil
}

func buildBody(bc config.BodyConfig) (*dynamo.Body, error) {
	b, err := dynamo.NewBody(
		bc.Name,
		dynamo.Vector2{X: bc.X, Y: bc.Y},
		dynamo.Vector2{X: bc.VX, Y: bc.VY},
		bc.Mass,
		bc.Radius,
	)
	if err != nil {
		return nil, err
	}
	b.Color = bc.Color
	b.AutoOrbit = bc.AutoOrbit
	return b, nil
}
