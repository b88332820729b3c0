package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		check  func(Input) bool
		wantDX float64
		wantDY float64
	}{
		{"nothing", "", func(in Input) bool { return !in.Quit && in.Pause == 0 }, 0, 0},
		{"quit", "q", func(in Input) bool { return in.Quit }, 0, 0},
		{"ctrl-c", "\x03", func(in Input) bool { return in.Quit }, 0, 0},
		{"double pause", "  ", func(in Input) bool { return in.Pause == 2 }, 0, 0},
		{"steps", "nnb", func(in Input) bool { return in.StepForward == 2 && in.StepBack == 1 }, 0, 0},
		{"reset and spawn", "r+", func(in Input) bool { return in.Reset == 1 && in.Spawn == 1 }, 0, 0},
		{"tab cycles", "\t\t", func(in Input) bool { return in.NextBody == 2 }, 0, 0},
		{"shift-tab", "\x1b[Z", func(in Input) bool { return in.PrevBody == 1 && in.NextBody == 0 }, 0, 0},
		{"help", "?", func(in Input) bool { return in.Help == 1 }, 0, 0},
		{"arrow up", "\x1b[A", func(in Input) bool { return in.Up && !in.Down }, 0, -1},
		{"arrow right", "\x1b[C", func(in Input) bool { return in.Right }, 1, 0},
		{"wasd diagonal", "sd", func(in Input) bool { return in.Down && in.Right }, 1, 1},
		{"opposite keys cancel", "ad", func(in Input) bool { return in.Left && in.Right }, 0, 0},
		{"unknown csi", "\x1b[Qq", func(in Input) bool { return in.Quit }, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream()
			feed(s, tt.data)
			in := ReadInput(s)
			if !tt.check(in) {
				t.Errorf("ReadInput(%q) = %+v", tt.data, in)
			}
			if dx, dy := in.Direction(); dx != tt.wantDX || dy != tt.wantDY {
				t.Errorf("Direction = (%v, %v), want (%v, %v)", dx, dy, tt.wantDX, tt.wantDY)
			}
			if string(in.Pressed) != tt.data {
				t.Errorf("Pressed = %q, want %q", in.Pressed, tt.data)
			}
		})
	}
}

func TestHeldKeysExpire(t *testing.T) {
	s := newStream()
	feed(s, "w")
	if in := ReadInput(s); !in.Up {
		t.Fatal("up not held right after press")
	}
	time.Sleep(2 * keyHoldDuration)
	if in := ReadInput(s); in.Up {
		t.Error("up still held after the hold window")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newStream()
	feed(s, "a")
	ReadInput(s)
	ResetKeyInput(s)
	if in := ReadInput(s); in.Left {
		t.Error("left held after ResetKeyInput")
	}
}

func TestStreamClosesOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("n")))
	deadline := time.Now().Add(2 * time.Second)
	steps := 0
	for !s.Closed() && time.Now().Before(deadline) {
		in := ReadInput(s)
		steps += in.StepForward
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream not closed after EOF")
	}
	if steps != 1 {
		t.Errorf("StepForward presses = %d, want 1", steps)
	}
	if in := ReadInput(s); !in.Quit {
		t.Error("closed stream does not report Quit")
	}
}
