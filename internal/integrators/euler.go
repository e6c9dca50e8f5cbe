package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// SemiImplicitEuler updates velocity first and moves with the new velocity.
type SemiImplicitEuler struct {
	gravity   physics.Gravity
	direction physics.Direction
}

func NewEuler(g physics.Gravity, dir physics.Direction) *SemiImplicitEuler {
	return &SemiImplicitEuler{gravity: g, direction: dir}
}

func (e *SemiImplicitEuler) Step(body, attractor *dynamo.Body, dt float64) {
	acc := e.gravity.Acceleration(body, attractor)
	if body.Phase == dynamo.PhaseUninitialized {
		settle(body, attractor, acc, e.direction)
	}

	body.Velocity = body.Velocity.Add(acc.Scale(dt))
	body.Position = body.Position.Add(body.Velocity.Scale(dt))

	body.PreviousAcceleration = body.Acceleration
	body.Acceleration = acc
}
