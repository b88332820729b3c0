package sim

import (
	"errors"
	"testing"

	"github.com/tomz197/tunnelless/internal/vector"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{in: "pause", want: Command{Kind: CmdTogglePause}},
		{in: " toggle-pause\n", want: Command{Kind: CmdTogglePause}},
		{in: "step-forward", want: Command{Kind: CmdStepForward}},
		{in: "step-back", want: Command{Kind: CmdStepBack}},
		{in: "reset", want: Command{Kind: CmdReset}},
		{in: "spawn", want: Command{Kind: CmdSpawn}},
		{in: "push ball-1 0 -1.5", want: Push("ball-1", vector.New(0, -1.5))},
		{in: "", wantErr: true},
		{in: "jump", wantErr: true},
		{in: "push ball-1 1", wantErr: true},
		{in: "push ball-1 up down", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadCommand) {
					t.Fatalf("ParseCommand(%q) err = %v, want ErrBadCommand", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCommandRoundTrip(t *testing.T) {
	for _, k := range []CommandKind{CmdTogglePause, CmdStepForward, CmdStepBack, CmdReset, CmdSpawn} {
		c, err := ParseCommand(Command{Kind: k}.String())
		if err != nil || c.Kind != k {
			t.Errorf("ParseCommand(%q) = %v, %v", k, c, err)
		}
	}
}
