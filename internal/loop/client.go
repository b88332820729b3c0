package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tunnelless/internal/draw"
	"github.com/tomz197/tunnelless/internal/input"
	"github.com/tomz197/tunnelless/internal/object"
	"github.com/tomz197/tunnelless/internal/sim"
	"github.com/tomz197/tunnelless/internal/vector"
)

// Client renders a runner's frames to a terminal and turns keys into commands.
type Client struct {
	runner       *sim.Runner
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Frame output
	overlay      *draw.ChunkWriter // Labels, flushed into chunkWriter after the canvas
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	idleTimeout  time.Duration
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	IdleTimeout  time.Duration // Quit after this long without input; 0 never
	Logger       *log.Logger
}

// NewClient creates a client for r reading keys from in and drawing to w.
func NewClient(r *sim.Runner, in *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	f := r.Frame()
	chunkWriter := draw.NewChunkWriter(w, 0, 0)
	c := &Client{
		runner:       r,
		state:        NewClientState(),
		canvas:       draw.NewCanvas(1, 1, f.Width, f.Height),
		chunkWriter:  chunkWriter,
		overlay:      draw.NewChunkWriter(chunkWriter, 0, 0),
		writer:       w,
		inputStream:  input.StartStream(in),
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		logger:       logger,
	}
	c.state.Selected = keepSelection(f.Movable(), "")
	c.updateScreen(f)
	return c
}

// Run draws frames until the user quits, the input ends, the idle timeout
// passes or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.state.Running {
		frameStart := time.Now()
		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		c.processInput()

		f := c.runner.Frame()
		c.state.Selected = keepSelection(f.Movable(), c.state.Selected)
		c.updateScreen(f)
		if err := c.drawFrame(f); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < ClientTargetFrameTime {
			time.Sleep(ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and forwards them to the runner.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in
	now := time.Now()

	if len(in.Pressed) > 0 {
		c.state.lastInput = now
	} else if c.idleTimeout > 0 && now.Sub(c.state.lastInput) > c.idleTimeout {
		c.logger.Info("Disconnecting idle client", "idle", c.idleTimeout)
		c.state.Running = false
		return
	}

	// Keys typed before a quit still count.
	c.sendN(in.Pause, sim.Command{Kind: sim.CmdTogglePause})
	c.sendN(in.StepForward, sim.Command{Kind: sim.CmdStepForward})
	c.sendN(in.StepBack, sim.Command{Kind: sim.CmdStepBack})
	c.sendN(in.Reset, sim.Command{Kind: sim.CmdReset})
	c.sendN(in.Spawn, sim.Command{Kind: sim.CmdSpawn})
	if in.Help%2 == 1 {
		c.state.Help = !c.state.Help
	}

	if steps := in.NextBody - in.PrevBody; steps != 0 {
		c.state.Selected = cycle(c.runner.Frame().Movable(), c.state.Selected, steps)
		input.ResetKeyInput(c.inputStream)
	}

	dx, dy := in.Direction()
	if (dx != 0 || dy != 0) && c.state.Selected != "" && now.Sub(c.state.lastPush) >= pushInterval {
		c.sendN(1, sim.Push(c.state.Selected, vector.New(dx, dy)))
		c.state.lastPush = now
	}

	if in.Quit {
		c.state.Running = false
	}
}

func (c *Client) sendN(n int, cmd sim.Command) {
	for i := 0; i < n; i++ {
		if !c.runner.Send(cmd) {
			c.logger.Warn("Command dropped, runner busy", "command", cmd)
			return
		}
	}
}

// updateScreen fits the canvas to the terminal and the world. On a layout
// change the terminal is cleared to remove leftovers of the old layout.
func (c *Client) updateScreen(f *sim.Frame) {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	width, height, offsetCol, offsetRow := fitCanvas(termWidth, termHeight, f.Width, f.Height)

	if width != c.canvas.TerminalWidth() || height != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
	}
	c.canvas.Resize(width, height)
	c.canvas.SetLogicalSize(f.Width, f.Height)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.overlay.SetOffset(offsetCol, offsetRow)
}

// fitCanvas sizes the render area: at most MaxTermWidth x MaxTermHeight,
// hudRows kept free at the bottom and the world's aspect ratio preserved.
func fitCanvas(termWidth, termHeight int, worldWidth, worldHeight float64) (width, height, offsetCol, offsetRow int) {
	availWidth := min(termWidth, MaxTermWidth)
	availHeight := min(termHeight-hudRows, MaxTermHeight)
	width, height, _, _ = draw.FitArea(availWidth, availHeight, worldWidth, worldHeight)
	offsetCol = max((termWidth-width)/2, 0)
	offsetRow = max((termHeight-hudRows-height)/2, 0)
	return width, height, offsetCol, offsetRow
}

// hudRow is the canvas-relative row of the status line: right below the
// canvas, or below its bottom border when one is drawn.
func hudRow(c *draw.Canvas) int {
	if c.OffsetRow() >= 1 {
		return c.TerminalHeight() + 2
	}
	return c.TerminalHeight() + 1
}

// drawFrame draws the bodies, their labels and the HUD and flushes the frame.
// Labels go through the overlay so they land on top of the canvas.
func (c *Client) drawFrame(f *sim.Frame) error {
	c.canvas.Clear()
	ctx := object.DrawContext{Canvas: c.canvas, Writer: c.overlay}
	for _, obj := range object.Scene(f, c.state.Selected) {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	if err := c.overlay.Flush(); err != nil {
		return err
	}

	hud := object.HUD{Frame: f, Selected: c.state.Selected, Help: c.state.Help, Row: hudRow(c.canvas)}
	if err := hud.Draw(object.DrawContext{Canvas: c.canvas, Writer: c.chunkWriter}); err != nil {
		return err
	}
	return c.chunkWriter.Flush()
}
