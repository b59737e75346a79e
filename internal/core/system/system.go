package system

import "time"

// Phase defines execution ordering within a single step.
type Phase int

const (
	PhaseInput      Phase = iota // 0: scripted actions, user toggles
	PhaseDispatch                // 1: deliver last step's events
	PhaseUpdate                  // 2: electrical step
	PhasePostUpdate              // 3: ephemeral particles
	PhasePersist                 // 4: telemetry flush
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseDispatch:
		return "dispatch"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhasePersist:
		return "persist"
	default:
		return "unknown"
	}
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
