// Package viz draws orbits in the terminal.
//
//   - [Canvas]: braille sub-pixel canvas used by the trace command and the
//     dashboard
//   - [Model]: Bubble Tea dashboard that advances a live system with real
//     elapsed time
//
// # Key Bindings
//
//	+ / -  Increase or decrease the anchor's mass
//	Space  Pause/Resume
//	R      Reset to the initial configuration
//	G      Toggle GIF recording
//	Q      Quit
package viz
