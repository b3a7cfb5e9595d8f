// Package viz is the terminal front end: a Bubble Tea program that drives a
// population and draws it on a Braille canvas.
//
//   - [App]: preset menu followed by the live view
//   - [Model]: live view with the parameter panel and metrics
//   - [Canvas]: Braille dot grid with per-dot fade
//   - [CanvasRenderer]: draws driver frames onto a Canvas
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	R         - Reseed from the current parameters
//	Tab       - Select next parameter
//	Up/Down   - Change the selected parameter
//	S / V     - Save the last frame as PNG / SVG
//	G         - Toggle GIF recording
//	T         - Cycle colour themes
//	?         - Show help overlay
package viz
