package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// RK4 is classic fourth-order Runge-Kutta on (position, velocity) with the
// attractor held still for the whole step. It is accurate per step but not
// symplectic, so energy slowly drifts over many orbits.
type RK4 struct {
	gravity   physics.Gravity
	direction physics.Direction
	probe     dynamo.Body
}

func NewRK4(g physics.Gravity, dir physics.Direction) *RK4 {
	return &RK4{gravity: g, direction: dir}
}

// accelAt evaluates the pull on body as if it sat at p.
func (r *RK4) accelAt(body, attractor *dynamo.Body, p dynamo.Vector2) dynamo.Vector2 {
	r.probe = *body
	r.probe.Position = p
	return r.gravity.Acceleration(&r.probe, attractor)
}

func (r *RK4) Step(body, attractor *dynamo.Body, dt float64) {
	x0, v0 := body.Position, body.Velocity
	a1 := r.gravity.Acceleration(body, attractor)
	if body.Phase == dynamo.PhaseUninitialized {
		settle(body, attractor, a1, r.direction)
		v0 = body.Velocity
	}

	h := 0.5 * dt
	x2 := x0.Add(v0.Scale(h))
	v2 := v0.Add(a1.Scale(h))
	a2 := r.accelAt(body, attractor, x2)

	x3 := x0.Add(v2.Scale(h))
	v3 := v0.Add(a2.Scale(h))
	a3 := r.accelAt(body, attractor, x3)

	x4 := x0.Add(v3.Scale(dt))
	v4 := v0.Add(a3.Scale(dt))
	a4 := r.accelAt(body, attractor, x4)

	dt6 := dt / 6.0
	body.Position = x0.Add(v0.Add(v2.Scale(2)).Add(v3.Scale(2)).Add(v4).Scale(dt6))
	body.Velocity = v0.Add(a1.Add(a2.Scale(2)).Add(a3.Scale(2)).Add(a4).Scale(dt6))

	body.PreviousAcceleration = body.Acceleration
	body.Acceleration = a1
}
