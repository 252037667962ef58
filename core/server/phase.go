package server

// Phase is the lifecycle state of a Server.
//
// A server moves Idle -> Accepting -> Draining -> Stopped exactly once.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseAccepting
	PhaseDraining
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccepting:
		return "accepting"
	case PhaseDraining:
		return "draining"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
