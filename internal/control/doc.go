// Package control applies external actions to bodies while a system runs.
//
// [MassControl] grows or shrinks a body by a fixed fraction of a reference
// mass:
//
//	mc := control.NewMassControl(anchor.Mass)
//	mc.Apply(anchor, control.Increase)
//
// Actions raised on other goroutines (a dashboard key press, a websocket
// command) go through a [Queue] and are drained by the goroutine that owns
// the system, so bodies are only ever mutated between ticks.
package control
