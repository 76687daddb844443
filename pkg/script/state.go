package script

import (
	"fmt"

	"src.movdino.sh/pkg/field"
)

// State is the stage of construction of the world. It is derived from the
// field, so that UNDO rewinds it along with everything else.
type State uint8

const (
	// No SIZE or LOAD yet.
	Unsized State = iota
	// Sized, waiting for START.
	Sized
	// The dinosaur is on the field; all commands are available.
	Started
)

// StateOf returns the state of a field.
func StateOf(f *field.Field) State {
	switch {
	case f.AgentPlaced:
		return Started
	case f.Sized:
		return Sized
	default:
		return Unsized
	}
}

func (s State) String() string {
	switch s {
	case Unsized:
		return "unsized"
	case Sized:
		return "sized"
	case Started:
		return "started"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// The state a command needs. EXEC and UNDO run in any state and have no
// entry; UNDO on an empty history only warns.
func requiredState(k Kind) (State, bool) {
	switch k {
	case Exec, Undo:
		return 0, false
	case Size, Load:
		return Unsized, true
	case Start:
		return Sized, true
	}
	return Started, true
}
