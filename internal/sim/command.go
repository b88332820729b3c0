package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomz197/tunnelless/internal/vector"
)

// CommandKind identifies a runner command.
type CommandKind uint8

const (
	CmdTogglePause CommandKind = iota
	CmdStepForward
	CmdStepBack
	CmdReset
	CmdPush
	CmdSpawn
)

func (k CommandKind) String() string {
	switch k {
	case CmdTogglePause:
		return "toggle-pause"
	case CmdStepForward:
		return "step-forward"
	case CmdStepBack:
		return "step-back"
	case CmdReset:
		return "reset"
	case CmdPush:
		return "push"
	case CmdSpawn:
		return "spawn"
	default:
		return fmt.Sprintf("command(%d)", uint8(k))
	}
}

// Command is a request applied by the runner goroutine between ticks.
type Command struct {
	Kind      CommandKind
	BodyID    string        // CmdPush target
	Direction vector.Vector // CmdPush direction, normalized by the runner
}

// Push returns a command that nudges the body with the given id along dir.
func Push(id string, dir vector.Vector) Command {
	return Command{Kind: CmdPush, BodyID: id, Direction: dir}
}

func (c Command) String() string {
	if c.Kind == CmdPush {
		return fmt.Sprintf("push %s %v", c.BodyID, c.Direction)
	}
	return c.Kind.String()
}

// ErrBadCommand is returned by ParseCommand for unrecognised input.
var ErrBadCommand = errors.New("bad command")

// ParseCommand reads a command in its text form: a kind name such as
// "reset" or "step-back", or "push <id> <dx> <dy>". "pause" is accepted
// for toggle-pause.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty input: %w", ErrBadCommand)
	}
	switch fields[0] {
	case "pause", "toggle-pause":
		return Command{Kind: CmdTogglePause}, nil
	case "step-forward":
		return Command{Kind: CmdStepForward}, nil
	case "step-back":
		return Command{Kind: CmdStepBack}, nil
	case "reset":
		return Command{Kind: CmdReset}, nil
	case "spawn":
		return Command{Kind: CmdSpawn}, nil
	case "push":
		if len(fields) != 4 {
			return Command{}, fmt.Errorf("push wants <id> <dx> <dy>, got %q: %w", s, ErrBadCommand)
		}
		dx, errX := strconv.ParseFloat(fields[2], 64)
		dy, errY := strconv.ParseFloat(fields[3], 64)
		if err := errors.Join(errX, errY); err != nil {
			return Command{}, fmt.Errorf("push direction: %w: %w", ErrBadCommand, err)
		}
		return Push(fields[1], vector.New(dx, dy)), nil
	}
	return Command{}, fmt.Errorf("%q: %w", fields[0], ErrBadCommand)
}
