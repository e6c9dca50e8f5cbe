package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Hook runs before every tick on the goroutine that owns the system. Hooks
// are where external actions such as mass adjustments are applied.
type Hook func(s *System) error

// System is one anchor with the bodies orbiting it. It is not safe for
// concurrent use.
type System struct {
	anchor      *dynamo.Body
	orbiters    []*dynamo.Body
	integrator  dynamo.Integrator
	opts        Options
	tick        uint64
	t           float64
	accumulator float64
	metrics     []dynamo.Metric
	observers   []dynamo.Observer
	hooks       []Hook
}

func New(anchor *dynamo.Body, orbiters []*dynamo.Body, integrator dynamo.Integrator, opts Options) (*System, error) {
	if anchor == nil {
		return nil, fmt.Errorf("sim: anchor is required")
	}
	if len(orbiters) == 0 {
		return nil, dynamo.ErrNoOrbiters
	}
	if err := validateTimestep(opts.Timestep); err != nil {
		return nil, err
	}
	for _, o := range orbiters {
		d := physics.Distance(o, anchor)
		if d == 0 || d < opts.Gravity.MinSeparation {
			return nil, fmt.Errorf("body %q: %w", o.Name, dynamo.ErrCoincidentBodies)
		}
	}

	if opts.AnchorMode == AnchorFixed {
		anchor.Velocity = dynamo.Vector2{}
	}

	return &System{
		anchor:     anchor,
		orbiters:   orbiters,
		integrator: integrator,
		opts:       opts,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

func validateTimestep(ts Timestep) error {
	if !validDt(ts.Step) {
		return fmt.Errorf("step %v: %w", ts.Step, dynamo.ErrInvalidTimestep)
	}
	if ts.Mode == TimestepVariable && !validDt(ts.MaxStep) {
		return fmt.Errorf("max step %v: %w", ts.MaxStep, dynamo.ErrInvalidTimestep)
	}
	if ts.MaxSubsteps < 1 {
		return fmt.Errorf("max substeps must be at least 1, got %d", ts.MaxSubsteps)
	}
	return nil
}

func validDt(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

func (s *System) AddMetric(m dynamo.Metric) {
	s.metrics = append(s.metrics, m)
}

func (s *System) AddObserver(o dynamo.Observer) {
	s.observers = append(s.observers, o)
}

func (s *System) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

func (s *System) Anchor() *dynamo.Body     { return s.anchor }
func (s *System) Orbiters() []*dynamo.Body { return s.orbiters }
func (s *System) Options() Options         { return s.opts }
func (s *System) Time() float64            { return s.t }
func (s *System) Ticks() uint64            { return s.tick }

// Accumulator returns simulated time received by Advance but not yet spent.
func (s *System) Accumulator() float64 { return s.accumulator }

// Tick advances every moving body by exactly dt.
func (s *System) Tick(dt float64) error {
	if !validDt(dt) {
		return fmt.Errorf("dt %v: %w", dt, dynamo.ErrInvalidTimestep)
	}

	for _, h := range s.hooks {
		if err := h(s); err != nil {
			return err
		}
	}

	switch s.opts.AnchorMode {
	case AnchorMobile:
		anchor := s.anchor.Clone()
		pull := s.barycenter()
		for _, o := range s.orbiters {
			s.integrator.Step(o, anchor, dt)
		}
		s.integrator.Step(s.anchor, pull, dt)
	default:
		for _, o := range s.orbiters {
			s.integrator.Step(o, s.anchor, dt)
		}
	}

	s.tick++
	s.t += dt

	if s.opts.ValidateState {
		if err := s.validate(); err != nil {
			return err
		}
	}

	for _, m := range s.metrics {
		m.Observe(s.anchor, s.orbiters, s.t)
	}
	if len(s.observers) > 0 {
		f := s.Frame()
		for _, obs := range s.observers {
			obs.OnTick(f)
		}
	}

	return nil
}

func (s *System) validate() error {
	bodies := append([]*dynamo.Body{s.anchor}, s.orbiters...)
	for _, b := range bodies {
		if !b.IsValid() {
			return &dynamo.SimulationError{Tick: s.tick, Time: s.t, Body: b.Name, Wrapped: dynamo.ErrUnstable}
		}
	}
	return nil
}

// barycenter returns a pseudo-body at the orbiters' center of mass carrying
// their total mass.
func (s *System) barycenter() *dynamo.Body {
	var mass float64
	var pos, vel dynamo.Vector2
	for _, o := range s.orbiters {
		mass += o.Mass
		pos = pos.Add(o.Position.Scale(o.Mass))
		vel = vel.Add(o.Velocity.Scale(o.Mass))
	}
	if mass <= 0 {
		return &dynamo.Body{Name: "barycenter", Position: s.orbiters[0].Position}
	}
	return &dynamo.Body{
		Name:     "barycenter",
		Position: pos.Scale(1 / mass),
		Velocity: vel.Scale(1 / mass),
		Mass:     mass,
	}
}

// Advance consumes real elapsed seconds and returns the number of ticks
// applied.
func (s *System) Advance(elapsed float64) (int, error) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 {
		return 0, fmt.Errorf("elapsed %v: %w", elapsed, dynamo.ErrInvalidTimestep)
	}
	if elapsed == 0 {
		return 0, nil
	}

	ts := s.opts.Timestep
	if ts.Mode == TimestepVariable {
		if err := s.Tick(math.Min(elapsed, ts.MaxStep)); err != nil {
			return 0, err
		}
		return 1, nil
	}

	s.accumulator += elapsed
	n := 0
	for s.accumulator >= ts.Step {
		if n == ts.MaxSubsteps {
			// too far behind; drop the backlog instead of spiralling
			s.accumulator = 0
			break
		}
		if err := s.Tick(ts.Step); err != nil {
			return n, err
		}
		s.accumulator -= ts.Step
		n++
	}
	return n, nil
}

// Frame snapshots the bodies for a renderer. The anchor comes first.
func (s *System) Frame() dynamo.Frame {
	views := make([]dynamo.BodyView, 0, len(s.orbiters)+1)
	views = append(views, s.anchor.View())
	for _, o := range s.orbiters {
		views = append(views, o.View())
	}
	return dynamo.Frame{Tick: s.tick, Time: s.t, Bodies: views}
}

// Energy is the total kinetic energy plus the potential of every
// orbiter-anchor pair.
func (s *System) Energy() float64 {
	e := physics.KineticEnergy(s.anchor)
	for _, o := range s.orbiters {
		e += physics.KineticEnergy(o) + s.opts.Gravity.PotentialEnergy(o, s.anchor)
	}
	return e
}

func (s *System) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	sample := cfg.SampleEvery
	if sample < 1 {
		sample = 1
	}

	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, steps/sample+1),
		Times:   make([]float64, 0, steps/sample+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.Frame())
	result.Times = append(result.Times, s.t)

	// The energy baseline is taken after the first tick, which settles
	// auto-orbit velocities.
	var initialEnergy float64

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.Tick(cfg.Dt); err != nil {
			var simErr *dynamo.SimulationError
			if errors.As(err, &simErr) {
				result.Errors = append(result.Errors, err)
				break
			}
			return result, err
		}
		result.StepsTaken++
		if result.StepsTaken == 1 {
			initialEnergy = s.Energy()
		}

		if result.StepsTaken%sample == 0 {
			result.Frames = append(result.Frames, s.Frame())
			result.Times = append(result.Times, s.t)
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg dynamo.Config) error {
	if !validDt(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback ticks until Duration elapses or callback returns false.
// The callback sees the frame before each tick.
func (s *System) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(dynamo.Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	end := s.t + cfg.Duration
	for s.t < end-cfg.Dt/2 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.Frame()) {
			return nil
		}

		if err := s.Tick(cfg.Dt); err != nil {
			return err
		}
	}

	return nil
}
