package sched

// Phase is the phase that the accelerator is currently in. Exactly one phase
// is active at a time and the lifecycle is cyclic, returning to PhaseIdle
// after PhaseFinished.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfig
	PhaseStarting
	PhaseComputing
	PhaseBuffering
	PhaseStoring
	PhaseFinished
)

// Name returns the name of the phase.
func (p Phase) Name() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseConfig:
		return "Config"
	case PhaseStarting:
		return "Starting"
	case PhaseComputing:
		return "Computing"
	case PhaseBuffering:
		return "Buffering"
	case PhaseStoring:
		return "Storing"
	case PhaseFinished:
		return "Finished"
	default:
		panic("invalid phase")
	}
}
