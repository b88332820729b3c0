// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a direction key counts as held after its last
// press. Terminals send key repeats rather than releases, so a short window
// bridges the gaps between repeats.
const keyHoldDuration = 30 * time.Millisecond

// Input is the key state of one frame. Direction keys are level-triggered;
// the rest count presses seen since the previous frame.
type Input struct {
	Left, Right, Up, Down bool

	Quit        bool
	Pause       int
	StepForward int
	StepBack    int
	Reset       int
	Spawn       int
	NextBody    int
	PrevBody    int
	Help        int

	Pressed []byte
}

// Direction returns the held direction as a unit grid step, (0, 0) if none.
func (in Input) Direction() (dx, dy float64) {
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	return dx, dy
}

// keyState tracks the last time each direction key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool { return s.closed }

// ReadInput drains all available bytes from the stream without blocking and
// decodes them. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf, Quit: s.closed}
	for i := 0; i < len(buf); i++ {
		// CSI sequence: ESC [ <code>
		if buf[i] == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if applyCSI(&s.state, &in, buf[i+2], now) {
				i += 2
				continue
			}
		}
		applyByte(&s.state, &in, buf[i], now)
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	return in
}

func applyCSI(state *keyState, in *Input, code byte, now time.Time) bool {
	switch code {
	case 'A':
		state.up = now
	case 'B':
		state.down = now
	case 'C':
		state.right = now
	case 'D':
		state.left = now
	case 'Z': // Shift-Tab
		in.PrevBody++
	default:
		return false
	}
	return true
}

func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h':
		state.left = now
	case 'd', 'D', 'l':
		state.right = now
	case 'w', 'W', 'k':
		state.up = now
	case 's', 'S', 'j':
		state.down = now
	case ' ', 'p', 'P':
		in.Pause++
	case 'n', 'N', '.':
		in.StepForward++
	case 'b', 'B', ',':
		in.StepBack++
	case 'r', 'R':
		in.Reset++
	case '+', '=', 'c', 'C':
		in.Spawn++
	case '\t':
		in.NextBody++
	case '?':
		in.Help++
	}
}

// ResetKeyInput forgets held keys, e.g. after the selection changes.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}
