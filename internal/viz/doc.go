// Package viz shows the sculpture in the terminal.
//
// [Preview] is a pixel sink: the animation loop pushes frames into it and a
// Bubble Tea program draws the latest one, projecting each LED's center
// through a rotatable [Camera] onto a colored character [Canvas].
//
// # Key Bindings
//
//	←/→   - Rotate around the vertical axis
//	↑/↓   - Tilt
//	+/-   - Zoom
//	n     - Next routine in the active playlist
//	1-9   - Fade to the numbered playlist
//	q     - Quit
package viz
