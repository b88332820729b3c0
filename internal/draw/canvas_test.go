package draw

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestFitArea(t *testing.T) {
	tests := []struct {
		name                 string
		termW, termH         int
		worldW, worldH       float64
		w, h, offCol, offRow int
	}{
		{"width bound", 100, 40, 200, 100, 100, 25, 0, 7},
		{"height bound", 100, 20, 200, 100, 80, 20, 10, 0},
		{"exact", 80, 20, 160, 80, 80, 20, 0, 0},
		{"no terminal", 0, 10, 200, 100, 1, 10, 0, 0},
		{"no world", 50, 10, 0, 100, 50, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, or := FitArea(tt.termW, tt.termH, tt.worldW, tt.worldH)
			if w != tt.w || h != tt.h || oc != tt.offCol || or != tt.offRow {
				t.Errorf("FitArea = %d, %d, %d, %d, want %d, %d, %d, %d",
					w, h, oc, or, tt.w, tt.h, tt.offCol, tt.offRow)
			}
		})
	}
}

// newUnitCanvas maps one logical unit to one sub-pixel.
func newUnitCanvas() *Canvas {
	return NewCanvas(10, 5, 10, 10)
}

func TestDrawLine(t *testing.T) {
	c := newUnitCanvas()
	c.DrawLine(Point{0, 3}, Point{9, 3})
	for x := 0; x < 10; x++ {
		if !c.IsSet(x, 3) {
			t.Errorf("pixel (%d, 3) not set", x)
		}
	}
	if c.IsSet(0, 4) {
		t.Error("pixel below the line set")
	}
}

func TestFillRect(t *testing.T) {
	c := newUnitCanvas()
	c.FillRect(2, 2, 3, 3)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := x >= 2 && x <= 4 && y >= 2 && y <= 4
			if got := c.IsSet(x, y); got != want {
				t.Errorf("IsSet(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	// A sliver thinner than a pixel still shows.
	c.Clear()
	c.FillRect(7.2, 0, 0.1, 10)
	if !c.IsSet(7, 5) {
		t.Error("thin rect not drawn")
	}

	// Partially outside the canvas.
	c.Clear()
	c.FillRect(-5, -5, 6, 6)
	if !c.IsSet(0, 0) || c.IsSet(1, 1) {
		t.Error("clipped rect drawn incorrectly")
	}
}

func TestDrawRectOutline(t *testing.T) {
	c := newUnitCanvas()
	c.DrawRect(1, 1, 6, 6)
	for _, p := range [][2]int{{1, 1}, {7, 1}, {7, 7}, {1, 7}, {4, 1}, {1, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("edge pixel %v not set", p)
		}
	}
	if c.IsSet(4, 4) {
		t.Error("outline filled its interior")
	}
}

func TestDrawCircle(t *testing.T) {
	c := newUnitCanvas()
	c.DrawCircle(Point{5, 5}, 3, false)
	if c.IsSet(5, 5) == false {
		t.Error("center not marked")
	}
	if !c.IsSet(8, 5) || !c.IsSet(2, 5) {
		t.Error("circle outline missing at the horizontal extremes")
	}
	if c.IsSet(6, 5) {
		t.Error("outline circle has a filled interior")
	}

	c.Clear()
	c.DrawCircle(Point{5, 5}, 3, true)
	if !c.IsSet(6, 5) || !c.IsSet(5, 6) {
		t.Error("filled circle has holes")
	}

	c.Clear()
	c.DrawCircle(Point{3, 3}, 0.1, false)
	if !c.IsSet(3, 3) {
		t.Error("tiny circle not visible")
	}
}

func TestRender(t *testing.T) {
	c := newUnitCanvas()
	c.SetFloat(0, 0)
	c.SetFloat(3, 2)
	c.SetFloat(3, 3)
	c.SetFloat(9, 9)

	var buf bytes.Buffer
	c.Render(&buf)
	want := "\033[1;1H▀\033[2;4H█\033[5;10H▄"
	if got := buf.String(); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("unchanged canvas rendered %q", buf.String())
	}

	c.SetOffset(2, 3)
	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[4;3H▀\033[5;6H█\033[8;12H▄" {
		t.Errorf("offset Render = %q", got)
	}
}

func TestRenderDiff(t *testing.T) {
	c := newUnitCanvas()
	c.SetFloat(0, 0)
	c.Render(io.Discard)

	// The pixel moves one cell right; text goes over two blank cells.
	c.Clear()
	c.SetFloat(1, 0)
	c.MarkTextDirty(5, 3, 2)
	var buf bytes.Buffer
	c.Render(&buf)
	if got, want := buf.String(), "\033[1;1H \033[1;2H▀"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	// The frame after the text was drawn blanks its cells.
	buf.Reset()
	c.Render(&buf)
	if got, want := buf.String(), "\033[3;5H \033[3;6H "; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("text cells repainted twice: %q", buf.String())
	}

	// Marks outside the canvas are clipped.
	c.MarkTextDirty(9, 99, 5)
	c.MarkTextDirty(9, 1, 5)
	c.Render(io.Discard)
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[1;9H \033[1;10H " {
		t.Errorf("clipped Render = %q", got)
	}
}

func TestRenderBorder(t *testing.T) {
	c := NewCanvas(3, 2, 3, 4)
	var buf bytes.Buffer
	c.RenderBorder(&buf)
	if buf.Len() != 0 {
		t.Errorf("border drawn without room: %q", buf.String())
	}

	c.SetOffset(1, 1)
	c.RenderBorder(&buf)
	got := buf.String()
	for _, want := range []string{"\033[1;1H┌───┐", "\033[4;1H└───┘", "\033[2;1H│\033[2;5H│"} {
		if !strings.Contains(got, want) {
			t.Errorf("border %q missing %q", got, want)
		}
	}
}

func TestScaling(t *testing.T) {
	c := NewCanvas(20, 5, 100, 50)
	if col, row := c.LogicalToTerminal(50, 25); col != 11 || row != 3 {
		t.Errorf("LogicalToTerminal = %d, %d, want 11, 3", col, row)
	}
	c.SetLogicalSize(20, 10)
	if col, row := c.LogicalToTerminal(10, 5); col != 11 || row != 3 {
		t.Errorf("after SetLogicalSize = %d, %d, want 11, 3", col, row)
	}
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(3, 4, "hi")
	cw.WriteAt(-1, 0, "!")
	if out.Len() != 0 {
		t.Fatal("ChunkWriter wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[5;5Hhi\033[2;3H!"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out.Reset()
	long := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteString(long)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != long {
		t.Errorf("long frame truncated to %d bytes", out.Len())
	}
}
