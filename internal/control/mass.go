package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

type Action int

const (
	Increase Action = iota
	Decrease
)

func (a Action) String() string {
	switch a {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increase", "inc", "+":
		return Increase, nil
	case "decrease", "dec", "-":
		return Decrease, nil
	}
	return 0, fmt.Errorf("unknown action: %q", s)
}

// MassControl changes a body's mass by Fraction of Reference per action and
// its radius by RadiusStep. The radius never drops below MinRadius and the
// mass never drops below zero.
type MassControl struct {
	Reference  float64
	Fraction   float64
	RadiusStep float64
	MinRadius  float64
}

func NewMassControl(reference float64) *MassControl {
	return &MassControl{
		Reference:  reference,
		Fraction:   0.1,
		RadiusStep: 1,
		MinRadius:  1,
	}
}

func (m *MassControl) increment() float64 {
	return m.Reference * m.Fraction
}

func (m *MassControl) Increase(b *dynamo.Body) {
	b.Mass += m.increment()
	b.Radius += m.RadiusStep
}

func (m *MassControl) Decrease(b *dynamo.Body) {
	inc := m.increment()
	b.Mass -= inc
	if b.Mass < inc*1e-9 {
		b.Mass = 0
		return
	}
	b.Radius -= m.RadiusStep
	if b.Radius < m.MinRadius {
		b.Radius = m.MinRadius
	}
}

func (m *MassControl) Apply(b *dynamo.Body, a Action) error {
	switch a {
	case Increase:
		m.Increase(b)
	case Decrease:
		m.Decrease(b)
	default:
		return fmt.Errorf("unknown action: %v", a)
	}
	return nil
}
