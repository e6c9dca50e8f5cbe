package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Verlet is velocity Verlet. It reuses the acceleration stored on the body
// from the previous step and evaluates the force once more at the new
// position.
type Verlet struct {
	gravity   physics.Gravity
	direction physics.Direction
}

func NewVerlet(g physics.Gravity, dir physics.Direction) *Verlet {
	return &Verlet{gravity: g, direction: dir}
}

func (v *Verlet) Step(body, attractor *dynamo.Body, dt float64) {
	acc := body.Acceleration
	if body.Phase == dynamo.PhaseUninitialized {
		acc = v.gravity.Acceleration(body, attractor)
		settle(body, attractor, acc, v.direction)
	}

	body.Position = body.Position.
		Add(body.Velocity.Scale(dt)).
		Add(acc.Scale(0.5 * dt * dt))

	next := v.gravity.Acceleration(body, attractor)
	body.Velocity = body.Velocity.Add(acc.Add(next).Scale(0.5 * dt))

	body.PreviousAcceleration = acc
	body.Acceleration = next
}
