package object

import "unicode/utf8"

// Text is a label at a 1-based canvas cell. Positions left of or above the
// canvas are clamped to its first column or row.
type Text struct {
	X     int
	Y     int
	Value string
}

// Draw writes the text at its position and marks the covered canvas cells
// for repainting, so the label disappears once it is no longer drawn.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" || ctx.Writer == nil {
		return nil
	}
	x, y := max(t.X, 1), max(t.Y, 1)
	ctx.Writer.WriteAt(x, y, t.Value)
	if ctx.Canvas != nil {
		ctx.Canvas.MarkTextDirty(x, y, utf8.RuneCountInString(t.Value))
	}
	return nil
}
