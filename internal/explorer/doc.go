// Package explorer is the interactive front end: a browser page that shows
// the current view and sends keyboard and mouse input back over a websocket.
//
// Each connection owns a Session. After every input the server renders the
// view at the window size, draws a HUD with the center, step size and depth,
// and pushes the frame as a binary PNG message followed by a JSON status
// message.
//
// Key bindings:
//
//	E / Q    zoom in by 0.8 / out by 1.25
//	R / F    depth +25 / -25
//	F1       snapshot at the configured size, named after the current time
//	F2       zoom sequence (seq_000000.png, seq_000001.png, ...)
//	F3       new random start color for the cyclic palette
//	F4       reset the step size
//	C / A    ranged-continuous / alternating palette
//	Escape   close the session
//
// A primary-button click recenters the view on the clicked pixel; resizing
// the browser window changes the render shape.
package explorer
