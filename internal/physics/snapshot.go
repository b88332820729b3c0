package physics

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/tunnelless/internal/vector"
)

// BodyState is the restorable part of a body.
type BodyState struct {
	ID       string        `msgpack:"id" json:"id"`
	X        float64       `msgpack:"x" json:"x"`
	Y        float64       `msgpack:"y" json:"y"`
	Velocity vector.Vector `msgpack:"velocity" json:"velocity"`
}

// WorldState is a snapshot consumed by rewind. Shapes, masses and names are
// not included; a state can only be loaded into the world it came from.
type WorldState struct {
	Bodies        []BodyState       `msgpack:"bodies" json:"bodies"`
	CollisionMemo map[string]string `msgpack:"collisionMemo" json:"collisionMemo"`
	Stats         Stats             `msgpack:"stats" json:"stats"`
}

// EncodeState serializes a snapshot with msgpack. Floats are kept at full
// 64-bit precision so a decoded state restores bit-identical values.
func EncodeState(state WorldState) ([]byte, error) {
	data, err := msgpack.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("encode world state: %w", err)
	}
	return data, nil
}

// DecodeState parses a snapshot produced by EncodeState.
func DecodeState(data []byte) (WorldState, error) {
	var state WorldState
	if err := msgpack.Unmarshal(data, &state); err != nil {
		return WorldState{}, fmt.Errorf("decode world state: %w", err)
	}
	return state, nil
}
