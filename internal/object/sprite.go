package object

import (
	"github.com/tomz197/tunnelless/internal/draw"
	"github.com/tomz197/tunnelless/internal/sim"
)

// velocityTicks is how many ticks ahead the selected body's velocity arrow reaches.
const velocityTicks = 3

// Sprite draws one body. Fixed bodies are filled and movable ones outlined.
// A selected body also shows its velocity and label.
type Sprite struct {
	View     sim.BodyView
	Selected bool
}

// Draw renders the body onto the canvas.
func (s Sprite) Draw(ctx DrawContext) error {
	v := s.View
	center := draw.Point{X: v.X + v.Width/2, Y: v.Y + v.Height/2}

	switch v.Kind {
	case "circle":
		ctx.Canvas.DrawCircle(center, v.Radius, v.Fixed || s.Selected)
	case "rect":
		if v.Fixed || s.Selected {
			ctx.Canvas.FillRect(v.X, v.Y, v.Width, v.Height)
		} else {
			ctx.Canvas.DrawRect(v.X, v.Y, v.Width, v.Height)
		}
	default:
		ctx.Canvas.SetFloat(v.X, v.Y)
	}

	if !s.Selected {
		return nil
	}
	ctx.Canvas.DrawLine(center, draw.Point{
		X: center.X + v.VX*velocityTicks,
		Y: center.Y + v.VY*velocityTicks,
	})
	col, row := ctx.Canvas.LogicalToTerminal(v.X+v.Width, v.Y)
	return Text{X: col + 1, Y: row - 1, Value: v.Label()}.Draw(ctx)
}
