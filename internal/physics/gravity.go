package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// DefaultG is a simulation parameter, not the physical constant.
	DefaultG             = 6.6674e-11
	DefaultMinSeparation = 1e-3
)

type Gravity struct {
	G             float64
	MinSeparation float64
}

func DefaultGravity() Gravity {
	return Gravity{G: DefaultG, MinSeparation: DefaultMinSeparation}
}

// Distance returns the Euclidean distance between two bodies.
func Distance(a, b *dynamo.Body) float64 {
	return b.Position.Sub(a.Position).Len()
}

func (g Gravity) separation(a, b *dynamo.Body) float64 {
	return math.Max(Distance(a, b), g.MinSeparation)
}

// Force returns G*m1*m2/d^2 with d clamped to MinSeparation.
func (g Gravity) Force(a, b *dynamo.Body) float64 {
	d := g.separation(a, b)
	return g.G * (a.Mass * b.Mass) / (d * d)
}

// AccelerationMagnitude returns Force/body.Mass. A body whose mass was
// adjusted down to zero falls back to the test-particle limit G*M/d^2.
func (g Gravity) AccelerationMagnitude(body, attractor *dynamo.Body) float64 {
	if body.Mass <= 0 {
		d := g.separation(body, attractor)
		return g.G * attractor.Mass / (d * d)
	}
	return g.Force(body, attractor) / body.Mass
}

// Acceleration resolves the pull of attractor on body into components that
// point from body toward attractor.
func (g Gravity) Acceleration(body, attractor *dynamo.Body) dynamo.Vector2 {
	a := g.AccelerationMagnitude(body, attractor)
	d := body.Position.Sub(attractor.Position)

	if d.X == 0 {
		return dynamo.Vector2{X: 0, Y: -sign(d.Y) * a}
	}

	theta := math.Atan(math.Abs(d.Y) / math.Abs(d.X))
	return dynamo.Vector2{
		X: -sign(d.X) * a * math.Cos(theta),
		Y: -sign(d.Y) * a * math.Sin(theta),
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
