package object

import (
	"fmt"
	"strings"

	"github.com/tomz197/tunnelless/internal/sim"
)

// HelpText lists the sandbox keys.
const HelpText = "arrows/wasd push  tab select  space pause  n step  b back  r reset  + spawn  ? help  q quit"

// HUD is the status line drawn below the canvas.
type HUD struct {
	Frame    *sim.Frame
	Selected string // Selected body id
	Help     bool   // Show the key list instead of the status
	Row      int    // Canvas-relative row of the status line
}

// Status formats the status line for a frame.
func (h HUD) Status() string {
	f := h.Frame
	var sb strings.Builder
	state := "running"
	if f.Paused {
		state = "paused"
	}
	fmt.Fprintf(&sb, "tick %d  %s  history %d  bodies %d  collisions %d  repeats %d",
		f.Tick, state, f.History, len(f.Bodies), f.Resolved, f.Suppressed)
	for _, b := range f.Bodies {
		if b.ID == h.Selected {
			fmt.Fprintf(&sb, "  [%s v=(%.2f, %.2f)]", b.Label(), b.VX, b.VY)
			break
		}
	}
	if f.Err != "" {
		fmt.Fprintf(&sb, "  error: %s", f.Err)
	}
	return sb.String()
}

// Draw writes the status or help line.
func (h HUD) Draw(ctx DrawContext) error {
	if ctx.Writer == nil {
		return nil
	}
	line := HelpText
	if !h.Help {
		line = h.Status()
	}
	ctx.Writer.WriteLine(h.Row, line)
	return nil
}
