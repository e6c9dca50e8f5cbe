package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

var unitGravity = physics.Gravity{G: 1, MinSeparation: 1e-3}

func pair(vx float64) (*dynamo.Body, []*dynamo.Body) {
	anchor := &dynamo.Body{Name: "sun", Mass: 1000}
	body := &dynamo.Body{
		Name:     "earth",
		Position: dynamo.Vector2{Y: 10},
		Velocity: dynamo.Vector2{X: vx},
		Mass:     1,
	}
	return anchor, []*dynamo.Body{body}
}

func TestEnergyValue(t *testing.T) {
	m := NewEnergy(unitGravity)
	anchor, orbiters := pair(10)

	m.Observe(anchor, orbiters, 0)

	// KE 0.5*1*100 = 50, PE -1*1000*1/10 = -100
	if got := m.Value(); math.Abs(got-(-50)) > 1e-9 {
		t.Errorf("Value() = %v, want -50", got)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(unitGravity)
	anchor, orbiters := pair(10)

	m.Observe(anchor, orbiters, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(unitGravity)
	anchor, orbiters := pair(10)

	m.Observe(anchor, orbiters, 0)
	if m.Value() != 0 {
		t.Errorf("drift after one sample = %v, want 0", m.Value())
	}

	// KE drops to 0: energy -100, drift |(-100)-(-50)|/50 = 1
	orbiters[0].Velocity.X = 0
	m.Observe(anchor, orbiters, 1)
	if got := m.Value(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Value() = %v, want 1", got)
	}

	orbiters[0].Velocity.X = 10
	m.Observe(anchor, orbiters, 2)
	if got := m.Value(); math.Abs(got-1) > 1e-9 {
		t.Errorf("max drift should stick, got %v", got)
	}
}

func TestRadiusDeviation(t *testing.T) {
	m := NewRadiusDeviation()
	anchor, orbiters := pair(0)

	m.Observe(anchor, orbiters, 0)
	orbiters[0].Position.Y = 11
	m.Observe(anchor, orbiters, 1)
	orbiters[0].Position.Y = 10.5
	m.Observe(anchor, orbiters, 2)

	if got := m.Value(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("Value() = %v, want 0.1", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("Value() after reset = %v, want 0", m.Value())
	}
}

func TestClosestApproach(t *testing.T) {
	m := NewClosestApproach()
	if m.Value() != 0 {
		t.Errorf("Value() with no samples = %v, want 0", m.Value())
	}

	anchor, orbiters := pair(0)
	for _, y := range []float64{10, 4, 7} {
		orbiters[0].Position.Y = y
		m.Observe(anchor, orbiters, 0)
	}

	if got := m.Value(); got != 4 {
		t.Errorf("Value() = %v, want 4", got)
	}
}
