package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Direction selects the sense of rotation used when deriving an initial
// orbital velocity. Coordinates are y-up.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cw", "clockwise":
		return Clockwise, nil
	case "ccw", "counterclockwise", "counter-clockwise":
		return CounterClockwise, nil
	}
	return Clockwise, fmt.Errorf("unknown direction: %s", s)
}

// TangentialVelocity derives a circular-orbit velocity from the current
// displacement and acceleration, one axis at a time: |vx| = sqrt(|ay*dy|),
// |vy| = sqrt(|ax*dx|). The result is perpendicular to displacement.
func TangentialVelocity(displacement, acc dynamo.Vector2, dir Direction) dynamo.Vector2 {
	vx := math.Sqrt(math.Abs(acc.Y * displacement.Y))
	vy := math.Sqrt(math.Abs(acc.X * displacement.X))

	v := dynamo.Vector2{
		X: sign(displacement.Y) * vx,
		Y: -sign(displacement.X) * vy,
	}
	if dir == CounterClockwise {
		v = v.Scale(-1)
	}
	return v
}

// CircularSpeed is sqrt(G*M/r) around a fixed attractor.
func CircularSpeed(g Gravity, body, attractor *dynamo.Body) float64 {
	r := g.separation(body, attractor)
	return math.Sqrt(g.G * attractor.Mass / r)
}

// OrbitalPeriod is 2*pi*sqrt(r^3/(G*M)) for a circular orbit around a fixed
// attractor.
func OrbitalPeriod(g Gravity, body, attractor *dynamo.Body) float64 {
	r := g.separation(body, attractor)
	return 2 * math.Pi * math.Sqrt(r*r*r/(g.G*attractor.Mass))
}
