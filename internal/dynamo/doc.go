// Package dynamo provides the core types of the orbit simulation.
//
// The package defines the data every other package exchanges:
//
//   - [Vector2]: displacement, velocity or acceleration pair
//   - [Body]: a point mass with its own integration state
//   - [Integrator]: advances one body under the pull of an attractor
//   - [Metric] and [Observer]: per-tick instrumentation
//   - [Frame]: what a renderer receives after each tick
//
// # Example
//
//	star, _ := dynamo.NewBody("star", dynamo.Vector2{X: 300, Y: 300}, dynamo.Vector2{}, 1.989e13, 15)
//	earth, _ := dynamo.NewBody("earth", dynamo.Vector2{X: 300, Y: 400}, dynamo.Vector2{}, 1e9, 5)
//	integ := integrators.NewLeapfrog(physics.DefaultGravity(), physics.Clockwise)
//	integ.Step(earth, star, 1.0/80)
//
// # Ownership
//
// Bodies are plain structs owned by whoever created them. Nothing in this
// package is safe for concurrent use; a body must not be read while an
// integrator is stepping it.
package dynamo
