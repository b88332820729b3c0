package sim

import (
	"github.com/tomz197/tunnelless/internal/physics"
)

// History is a bounded stack of encoded world states. When full, pushing
// discards the oldest entry. A zero-capacity history stores nothing.
type History struct {
	entries [][]byte
	start   int // Index of the oldest entry
	n       int
}

// NewHistory creates a history holding at most capacity states.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{entries: make([][]byte, capacity)}
}

// Push encodes and stores state as the newest entry.
func (h *History) Push(state physics.WorldState) error {
	if len(h.entries) == 0 {
		return nil
	}
	data, err := physics.EncodeState(state)
	if err != nil {
		return err
	}
	if h.n == len(h.entries) {
		h.entries[h.start] = data
		h.start = (h.start + 1) % len(h.entries)
		return nil
	}
	h.entries[(h.start+h.n)%len(h.entries)] = data
	h.n++
	return nil
}

// Pop removes and decodes the newest entry. ok is false when empty.
func (h *History) Pop() (state physics.WorldState, ok bool, err error) {
	if h.n == 0 {
		return physics.WorldState{}, false, nil
	}
	h.n--
	i := (h.start + h.n) % len(h.entries)
	data := h.entries[i]
	h.entries[i] = nil
	state, err = physics.DecodeState(data)
	if err != nil {
		return physics.WorldState{}, false, err
	}
	return state, true, nil
}

// Len returns the number of stored states.
func (h *History) Len() int { return h.n }

// Cap returns the maximum number of stored states.
func (h *History) Cap() int { return len(h.entries) }

// Clear drops every entry.
func (h *History) Clear() {
	clear(h.entries)
	h.start, h.n = 0, 0
}
