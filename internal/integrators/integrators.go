// Package integrators advances a body by one timestep under the pull of an
// attractor. All integrators implement [dynamo.Integrator] and share the same
// first-step behaviour: a body with AutoOrbit set gets a tangential
// circular-orbit velocity derived from its current acceleration.
package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// settle fixes the starting velocity of a body on its first step and moves
// it to the running phase.
func settle(body, attractor *dynamo.Body, acc dynamo.Vector2, dir physics.Direction) {
	if body.AutoOrbit {
		d := body.Position.Sub(attractor.Position)
		body.Velocity = physics.TangentialVelocity(d, acc, dir).Add(attractor.Velocity)
	}
	body.Phase = dynamo.PhaseRunning
}
