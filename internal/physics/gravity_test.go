package physics

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func body(x, y, mass float64) *dynamo.Body {
	return &dynamo.Body{Position: dynamo.Vector2{X: x, Y: y}, Mass: mass}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]*dynamo.Body{
		{body(0, 0, 1), body(3, 4, 1)},
		{body(-10, 2, 5), body(7, -3, 2)},
		{body(300, 300, 1.989e13), body(300, 400, 1e9)},
		{body(1, 1, 1), body(1, 1, 1)},
	}

	for _, p := range pairs {
		ab, ba := Distance(p[0], p[1]), Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
		}
	}

	if d := Distance(pairs[0][0], pairs[0][1]); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestForceSymmetry(t *testing.T) {
	g := DefaultGravity()
	pairs := [][2]*dynamo.Body{
		{body(300, 300, 1.989e13), body(310, 390, 1e9)},
		{body(300, 300, 1.989e13), body(300, 400, 1.989e13/4)},
		{body(0, 0, 3), body(0.1, 0.7, 7)},
		{body(-12.5, 4, 1e-3), body(33, -8, 2.5e11)},
		{body(5, 5, 1.1), body(5, 5, 1.3)},
	}

	for _, p := range pairs {
		if fa, fb := g.Force(p[0], p[1]), g.Force(p[1], p[0]); fa != fb {
			t.Errorf("Force not symmetric for masses %v, %v: %v vs %v", p[0].Mass, p[1].Mass, fa, fb)
		}
		if ua, ub := g.PotentialEnergy(p[0], p[1]), g.PotentialEnergy(p[1], p[0]); ua != ub {
			t.Errorf("PotentialEnergy not symmetric for masses %v, %v: %v vs %v", p[0].Mass, p[1].Mass, ua, ub)
		}
	}
}

func TestForceInverseSquare(t *testing.T) {
	g := Gravity{G: 2, MinSeparation: 1e-6}
	a := body(0, 0, 3)
	b := body(0, 10, 5)

	expected := 2.0 * 3 * 5 / 100
	if f := g.Force(a, b); math.Abs(f-expected) > 1e-12 {
		t.Errorf("Force = %v, want %v", f, expected)
	}
}

func TestForceDecreasesWithDistance(t *testing.T) {
	g := DefaultGravity()
	anchor := body(0, 0, 1.989e13)

	prev := math.Inf(1)
	for _, r := range []float64{0.01, 0.5, 1, 10, 100, 1e3, 1e6} {
		f := g.Force(anchor, body(r, 0, 1e9))
		if !(f < prev) {
			t.Fatalf("force at r=%v (%v) not below force at smaller r (%v)", r, f, prev)
		}
		prev = f
	}
}

func TestForceClampsCoincidentBodies(t *testing.T) {
	g := Gravity{G: 1, MinSeparation: 0.5}
	a := body(1, 1, 2)
	b := body(1, 1, 3)

	f := g.Force(a, b)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		t.Fatalf("Force not finite for coincident bodies: %v", f)
	}
	if want := 1.0 * 2 * 3 / 0.25; math.Abs(f-want) > 1e-12 {
		t.Errorf("Force = %v, want %v", f, want)
	}

	acc := g.Acceleration(a, b)
	if !acc.IsValid() {
		t.Errorf("Acceleration not finite for coincident bodies: %v", acc)
	}
	if acc.X != 0 || acc.Y != 0 {
		t.Errorf("Acceleration for coincident bodies = %v, want zero direction", acc)
	}
}

func TestAccelerationDirectlyAboveAndBelow(t *testing.T) {
	g := Gravity{G: 1, MinSeparation: 1e-6}
	anchor := body(5, 5, 100)

	above := g.Acceleration(body(5, 15, 1), anchor)
	if above.X != 0 {
		t.Errorf("above: ax = %v, want exactly 0", above.X)
	}
	if math.Abs(above.Y-(-1.0)) > 1e-12 {
		t.Errorf("above: ay = %v, want -1", above.Y)
	}

	below := g.Acceleration(body(5, -5, 1), anchor)
	if below.X != 0 {
		t.Errorf("below: ax = %v, want exactly 0", below.X)
	}
	if math.Abs(below.Y-1.0) > 1e-12 {
		t.Errorf("below: ay = %v, want 1", below.Y)
	}
}

func TestAccelerationPointsAtAttractor(t *testing.T) {
	g := Gravity{G: 1, MinSeparation: 1e-6}
	anchor := body(0, 0, 1000)

	positions := []dynamo.Vector2{
		{X: 10, Y: 0}, {X: -10, Y: 0}, {X: 3, Y: 4}, {X: -3, Y: 4},
		{X: -3, Y: -4}, {X: 3, Y: -4}, {X: 0.001, Y: 50},
	}

	for _, p := range positions {
		b := body(p.X, p.Y, 1)
		acc := g.Acceleration(b, anchor)
		r := p.Len()

		wantMag := 1000 / (r * r)
		if math.Abs(acc.Len()-wantMag) > 1e-9*wantMag {
			t.Errorf("pos %v: |a| = %v, want %v", p, acc.Len(), wantMag)
		}

		want := p.Scale(-wantMag / r)
		if math.Abs(acc.X-want.X) > 1e-9 || math.Abs(acc.Y-want.Y) > 1e-9 {
			t.Errorf("pos %v: a = %v, want %v", p, acc, want)
		}
	}
}

func TestAccelerationZeroMassBody(t *testing.T) {
	g := Gravity{G: 1, MinSeparation: 1e-6}
	anchor := body(0, 0, 50)
	b := body(0, 5, 0)

	acc := g.Acceleration(b, anchor)
	if !acc.IsValid() {
		t.Fatalf("acceleration not finite: %v", acc)
	}
	if math.Abs(acc.Y-(-2.0)) > 1e-12 {
		t.Errorf("ay = %v, want -2", acc.Y)
	}
}
