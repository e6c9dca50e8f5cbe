package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Leapfrog kicks velocity with the mean of the previous and the new
// acceleration, then drifts position with the previous acceleration:
//
//	v += 0.5*(a_new + a_prev)*dt
//	x += v*dt + 0.5*a_prev*dt^2
//
// On the first step a_prev is taken to be a_new.
type Leapfrog struct {
	gravity   physics.Gravity
	direction physics.Direction
}

func NewLeapfrog(g physics.Gravity, dir physics.Direction) *Leapfrog {
	return &Leapfrog{gravity: g, direction: dir}
}

func (l *Leapfrog) Step(body, attractor *dynamo.Body, dt float64) {
	prev := body.Acceleration
	acc := l.gravity.Acceleration(body, attractor)

	if body.Phase == dynamo.PhaseUninitialized {
		settle(body, attractor, acc, l.direction)
		prev = acc
	} else {
		body.Velocity = body.Velocity.Add(acc.Add(prev).Scale(0.5 * dt))
	}

	body.Position = body.Position.
		Add(body.Velocity.Scale(dt)).
		Add(prev.Scale(0.5 * dt * dt))

	body.PreviousAcceleration = prev
	body.Acceleration = acc
}
