package recorder

// State is the lifecycle of the record control.
type State int

const (
	StateIdle State = iota
	StateRequesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	default:
		return "unknown"
	}
}
