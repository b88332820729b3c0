package physics

import "errors"

// Invariant violations. None of these are expected at runtime; callers should
// treat them as fatal to the current tick.
var (
	// ErrInvalidOperation is returned for operations a body's state forbids,
	// such as giving a fixed body a nonzero velocity.
	ErrInvalidOperation = errors.New("physics: invalid operation")

	// ErrUnsupportedCollisionKind is returned for pairs whose shape combination
	// has no collision routine.
	ErrUnsupportedCollisionKind = errors.New("physics: unsupported collision kind")

	// ErrMalformedCollisionEvent is returned when an event lacks the contact
	// data its pair kind requires.
	ErrMalformedCollisionEvent = errors.New("physics: malformed collision event")

	// ErrUnknownBodyID is returned when a saved state names a body the world does not hold.
	ErrUnknownBodyID = errors.New("physics: unknown body id")
)
