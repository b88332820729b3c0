package loop

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Largest render area in terminal cells. Bigger terminals get a centered,
// bordered canvas.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
)

// hudRows is the number of terminal rows reserved below the canvas.
const hudRows = 1

// pushInterval limits how often a held direction key pushes the selected
// body. Terminal key repeat would otherwise push on every frame.
const pushInterval = 100 * time.Millisecond
