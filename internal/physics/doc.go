// Package physics provides the force model of the orbit simulation.
//
// [Gravity] computes the Newtonian inverse-square force between two point
// masses and resolves it into an acceleration pointing at the attractor:
//
//	g := physics.DefaultGravity()
//	f := g.Force(earth, star)
//	a := g.Acceleration(earth, star)
//
// The separation used in the force law is clamped to [Gravity.MinSeparation]
// so coincident bodies produce a large but finite pull instead of NaN.
//
// Helpers for circular orbits ([TangentialVelocity], [CircularSpeed],
// [OrbitalPeriod]) and energy bookkeeping live alongside.
package physics
