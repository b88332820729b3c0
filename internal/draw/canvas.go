// Package draw renders world-space shapes into a terminal using half-block
// characters, which gives twice the vertical resolution of plain cells.
package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// Block characters for drawing.
const (
	BlockEmpty     = ' '
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// circleSegments is the polygon resolution used for circles.
const circleSegments = 24

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Drawing methods take logical (world) coordinates and scale them to the
// terminal area given at construction.
type Canvas struct {
	termWidth      int    // Terminal columns covered
	termHeight     int    // Terminal rows covered
	subPixelHeight int    // termHeight * 2
	pixels         []bool // [y * termWidth + x]

	// Render only writes cells that differ from the previous frame.
	prevCells []rune // [row * termWidth + col], 0 for a blank cell
	dirty     []bool // Cells covered by text this frame
	stale     []bool // Cells covered by text last frame, repainted by Render

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// 0-based terminal offsets of the canvas area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas covering termWidth x termHeight cells that maps
// a logicalWidth x logicalHeight world onto them.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize changes the terminal area while keeping the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]bool, c.subPixelHeight*termWidth)
		c.prevCells = make([]rune, termWidth*termHeight)
		c.dirty = make([]bool, termWidth*termHeight)
		c.stale = make([]bool, termWidth*termHeight)
	}
	c.updateScale()
}

// SetLogicalSize changes the world dimensions mapped onto the canvas.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth, c.logicalHeight = width, height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// The canvas starts at terminal position (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int      { return c.offsetCol }
func (c *Canvas) OffsetRow() int      { return c.offsetRow }
func (c *Canvas) TerminalWidth() int  { return c.termWidth }
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw forgets what is on screen so the next Render writes every lit
// cell. Call it after clearing the terminal.
func (c *Canvas) ForceRedraw() {
	clear(c.prevCells)
}

// MarkTextDirty records that text covers n cells starting at the 1-based
// canvas position (col, row). The text is written after this frame's Render,
// so the cells are repainted by the Render of the following frame, which
// erases the text unless it is drawn again.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.dirty[row*c.termWidth+x] = true
	}
}

// IsSet reports whether the sub-pixel at (x, y) is lit. Coordinates are in
// sub-pixels, not logical units.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// SetFloat lights the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(c.toPixel(Point{x, y}))
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.toPixel(p1)
	x2, y2 := c.toPixel(p2)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon, optionally filled.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// DrawCircle draws a circle as a regular polygon. Circles smaller than a
// pixel still light their center.
func (c *Canvas) DrawCircle(center Point, radius float64, filled bool) {
	c.SetFloat(center.X, center.Y)
	points := c.BorrowPoints(circleSegments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / circleSegments
		points[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	c.DrawPolygon(points, filled)
}

// DrawRect outlines the axis-aligned rectangle with top-left (x, y).
func (c *Canvas) DrawRect(x, y, width, height float64) {
	c.DrawPolygon(c.rectPoints(x, y, width, height), false)
}

// FillRect fills the axis-aligned rectangle with top-left (x, y). Every pixel
// the rectangle touches is lit, so thin walls stay visible.
func (c *Canvas) FillRect(x, y, width, height float64) {
	x0, y0 := int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY))
	x1, y1 := int(math.Ceil((x+width)*c.scaleX))-1, int(math.Ceil((y+height)*c.scaleY))-1
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.termWidth-1), min(y1, c.subPixelHeight-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.pixels[py*c.termWidth+px] = true
		}
	}
}

func (c *Canvas) rectPoints(x, y, width, height float64) []Point {
	points := c.BorrowPoints(4)
	points[0] = Point{x, y}
	points[1] = Point{x + width, y}
	points[2] = Point{x + width, y + height}
	points[3] = Point{x, y + height}
	return points
}

// fillPolygon fills a polygon using a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []Point) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once. It stays under a
// typical 1500 byte MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render to w as
// positioned half-block characters. Cells that went dark are blanked.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			ch := BlockEmpty
			switch {
			case top && bottom:
				ch = BlockFull
			case top:
				ch = BlockUpperHalf
			case bottom:
				ch = BlockLowerHalf
			}

			cell := row*c.termWidth + col
			prev := c.prevCells[cell]
			if prev == 0 {
				prev = BlockEmpty
			}
			if ch == prev && !c.stale[cell] {
				continue
			}
			c.prevCells[cell] = ch
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}
	c.stale, c.dirty = c.dirty, c.stale
	clear(c.dirty)

	writeChunked(w, c.renderBuf.String())
}

// RenderBorder frames the canvas area when the offsets leave room for it.
// Horizontal bars need a row offset, vertical bars a column offset.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, bar)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based position inside
// the canvas area, for text placed next to drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(Point{x, y})
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of n points, valid until the next
// call on the same canvas.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
