package loop

import (
	"time"

	"github.com/tomz197/tunnelless/internal/input"
	"github.com/tomz197/tunnelless/internal/sim"
)

// ClientState holds per-viewer state. The simulation itself lives in the
// runner; the client only keeps what the viewer chose.
type ClientState struct {
	Input     input.Input
	Selected  string // Selected body id, "" if nothing is movable
	Help      bool
	Running   bool
	lastInput time.Time
	lastPush  time.Time
}

// NewClientState creates a running client state.
func NewClientState() *ClientState {
	return &ClientState{Running: true, lastInput: time.Now()}
}

// cycle moves the selection step places through the movable bodies,
// wrapping around. An unknown or empty current id selects the first body
// for a forward step and the last for a backward one.
func cycle(movable []sim.BodyView, current string, step int) string {
	n := len(movable)
	if n == 0 {
		return ""
	}
	idx := -1
	for i, b := range movable {
		if b.ID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step < 0 {
			return movable[n-1].ID
		}
		return movable[0].ID
	}
	return movable[((idx+step)%n+n)%n].ID
}

// keepSelection returns current if it is still movable, or the first movable
// body otherwise. Resets and rewinds can invalidate a selection.
func keepSelection(movable []sim.BodyView, current string) string {
	for _, b := range movable {
		if b.ID == current {
			return current
		}
	}
	if len(movable) == 0 {
		return ""
	}
	return movable[0].ID
}
