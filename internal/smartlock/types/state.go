package types

// State is the controller's position in the access sequence.
type State int

const (
	StateBooting State = iota
	StateIdle
	StateCapturing
	StateGranted
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateGranted:
		return "granted"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Outcome is how a capture attempt resolved.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "wrong_password"
)
