// Package object holds the drawable things of the sandbox view.
package object

import (
	"github.com/tomz197/tunnelless/internal/draw"
	"github.com/tomz197/tunnelless/internal/sim"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Half-block canvas in world coordinates
	Writer *draw.ChunkWriter // Text overlays, positioned in canvas cells
}

// Object is anything the client draws each frame.
type Object interface {
	Draw(ctx DrawContext) error
}

// Scene returns the drawables for a frame: one sprite per body, with the
// body whose id is selected highlighted.
func Scene(f *sim.Frame, selected string) []Object {
	objects := make([]Object, 0, len(f.Bodies))
	for _, b := range f.Bodies {
		objects = append(objects, Sprite{View: b, Selected: b.ID == selected})
	}
	return objects
}
