package dynamo

import (
	"fmt"
	"math"
)

type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Scale(f float64) Vector2 {
	return Vector2{v.X * f, v.Y * f}
}

func (v Vector2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector2) IsValid() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Phase tracks whether a body's initial velocity has been settled by an
// integrator. It moves from PhaseUninitialized to PhaseRunning exactly once.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRunning:
		return "running"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Body struct {
	Name                 string
	Position             Vector2
	Velocity             Vector2
	Acceleration         Vector2
	PreviousAcceleration Vector2
	Mass                 float64
	Radius               float64
	Color                string
	// AutoOrbit replaces the configured velocity with a circular-orbit
	// velocity on the first step.
	AutoOrbit bool
	Phase     Phase
}

// NewBody validates and returns a body with auto-orbit enabled.
func NewBody(name string, position, velocity Vector2, mass, radius float64) (*Body, error) {
	if !position.IsValid() || !velocity.IsValid() || !isFinite(mass) || !isFinite(radius) {
		return nil, fmt.Errorf("body %q: %w", name, ErrNonFinite)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("body %q: %w (got %g)", name, ErrNonPositiveMass, mass)
	}
	if radius < 0 {
		return nil, fmt.Errorf("body %q: %w (got %g)", name, ErrNegativeRadius, radius)
	}
	return &Body{
		Name:      name,
		Position:  position,
		Velocity:  velocity,
		Mass:      mass,
		Radius:    radius,
		AutoOrbit: true,
	}, nil
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) IsValid() bool {
	return b.Position.IsValid() && b.Velocity.IsValid() && b.Acceleration.IsValid() &&
		isFinite(b.Mass) && isFinite(b.Radius)
}

func (b *Body) View() BodyView {
	return BodyView{
		Name:   b.Name,
		X:      b.Position.X,
		Y:      b.Position.Y,
		VX:     b.Velocity.X,
		VY:     b.Velocity.Y,
		Radius: b.Radius,
		Mass:   b.Mass,
		Color:  b.Color,
	}
}

type Integrator interface {
	Step(body, attractor *Body, dt float64)
}

type Metric interface {
	Name() string
	Observe(anchor *Body, orbiters []*Body, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// BodyView is the per-body part of a Frame.
type BodyView struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color,omitempty"`
}

// Frame is the state published after a tick. Bodies[0] is the anchor.
type Frame struct {
	Tick   uint64     `json:"tick"`
	Time   float64    `json:"time"`
	Bodies []BodyView `json:"bodies"`
}

func (f Frame) Body(name string) (BodyView, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyView{}, false
}

// Config describes a headless run. A frame is recorded every SampleEvery
// ticks.
type Config struct {
	Dt          float64
	Duration    float64
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          1.0 / 80,
		Duration:    60.0,
		SampleEvery: 1,
	}
}

type Result struct {
	Frames      []Frame
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
