package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/tunnelless/internal/draw"
	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/scene"
	"github.com/tomz197/tunnelless/internal/sim"
)

func fixedSize(w, h int) draw.TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func newRunner(t *testing.T, opts ...sim.Option) *sim.Runner {
	t.Helper()
	build := func() (*physics.World, error) {
		return scene.Build("boxes", scene.Config{Width: 160, Height: 80})
	}
	r, err := sim.NewRunner(build, append([]sim.Option{sim.WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

// syncBuffer is a bytes.Buffer safe for the client goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCycle(t *testing.T) {
	movable := []sim.BodyView{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	tests := []struct {
		name    string
		movable []sim.BodyView
		current string
		step    int
		want    string
	}{
		{"next", movable, "a", 1, "b"},
		{"wrap forward", movable, "c", 1, "a"},
		{"wrap backward", movable, "a", -1, "c"},
		{"several", movable, "b", 4, "c"},
		{"unknown forward", movable, "zz", 1, "a"},
		{"unknown backward", movable, "", -1, "c"},
		{"nothing movable", nil, "a", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cycle(tt.movable, tt.current, tt.step); got != tt.want {
				t.Errorf("cycle(%q, %d) = %q, want %q", tt.current, tt.step, got, tt.want)
			}
		})
	}
}

func TestKeepSelection(t *testing.T) {
	movable := []sim.BodyView{{ID: "a"}, {ID: "b"}}
	if got := keepSelection(movable, "b"); got != "b" {
		t.Errorf("keepSelection(b) = %q", got)
	}
	if got := keepSelection(movable, "gone"); got != "a" {
		t.Errorf("keepSelection(gone) = %q, want a", got)
	}
	if got := keepSelection(nil, "a"); got != "" {
		t.Errorf("keepSelection on empty = %q", got)
	}
}

func TestFitCanvas(t *testing.T) {
	tests := []struct {
		name                 string
		termW, termH         int
		w, h, offCol, offRow int
	}{
		// 2:1 world, one HUD row reserved.
		{"exact", 80, 21, 80, 20, 0, 0},
		{"tall terminal", 80, 41, 80, 20, 0, 10},
		{"wide terminal", 200, 21, 80, 20, 60, 0},
		{"huge terminal", 1000, 500, 240, 60, 380, 219},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, or := fitCanvas(tt.termW, tt.termH, 160, 80)
			if w != tt.w || h != tt.h || oc != tt.offCol || or != tt.offRow {
				t.Errorf("fitCanvas = %d, %d, %d, %d, want %d, %d, %d, %d",
					w, h, oc, or, tt.w, tt.h, tt.offCol, tt.offRow)
			}
		})
	}
}

func TestHUDRowBelowBorder(t *testing.T) {
	c := draw.NewCanvas(80, 20, 160, 80)
	if got := hudRow(c); got != 21 {
		t.Errorf("hudRow = %d, want 21", got)
	}
	c.SetOffset(0, 10)
	if got := hudRow(c); got != 22 {
		t.Errorf("hudRow with border = %d, want 22", got)
	}
}

func TestClientSendsCommandsAndQuits(t *testing.T) {
	r := newRunner(t, sim.Paused())
	var out syncBuffer
	in := bufio.NewReader(strings.NewReader("nn\tq"))
	c := NewClient(r, in, &out, ClientOptions{TermSizeFunc: fixedSize(80, 21)})
	if c.state.Selected == "" {
		t.Fatal("no body selected initially")
	}
	first := c.state.Selected

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client did not quit")
	}

	if err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	if got := r.Frame().Tick; got != 2 {
		t.Errorf("Tick = %d, want 2 after two step commands", got)
	}
	if c.state.Selected == first {
		t.Error("tab did not change the selection")
	}
	if !strings.Contains(out.String(), "tick 0") {
		t.Errorf("HUD missing from output %q", out.String())
	}
}

func TestClientStopsOnCancel(t *testing.T) {
	r := newRunner(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, r, bufio.NewReader(pr), &out, ClientOptions{TermSizeFunc: fixedSize(100, 30)})
	}()

	deadline := time.After(5 * time.Second)
	for r.Frame().Tick < 2 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("runner did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientIdleTimeout(t *testing.T) {
	r := newRunner(t, sim.Paused())
	pr, pw := io.Pipe()
	defer pw.Close()

	var out syncBuffer
	c := NewClient(r, bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 21),
		IdleTimeout:  50 * time.Millisecond,
	})
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("idle client was not disconnected")
	}
}
