// Package viz draws a running engine in the terminal with Bubble Tea.
//
// Charges are drawn as glyphs over a braille trail canvas:
//
//	+  positive
//	-  negative
//	o  neutral
//	#  fixed
//	x  voltmeter probe
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Reset to the configured charges
//	M       - Switch between 2D and 3D
//	T       - Cycle color themes
//	Arrows  - Move the voltmeter probe
//	X/Y/Z   - Rotate the 3D view
//	+/-     - Zoom
//	?       - Show help overlay
//	Q       - Quit
package viz
