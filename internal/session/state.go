package session

// State is the session lifecycle state.
type State uint8

const (
	// StateLoading waits for the initial content.
	StateLoading State = iota
	// StateReady accepts edits.
	StateReady
	// StateSaving accepts edits while a save is in flight.
	StateSaving
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// editable reports whether content may change in s.
func (s State) editable() bool {
	return s == StateReady || s == StateSaving
}
