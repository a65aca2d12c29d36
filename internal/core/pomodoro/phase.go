package pomodoro

// Phase represents the timer's current interval kind.
type Phase string

const (
	PhaseInactive Phase = "inactive"
	PhaseWorking  Phase = "working"
	PhaseResting  Phase = "resting"
	PhasePaused   Phase = "paused"
)

// Active reports whether the phase has a live deadline counting down.
func (phase Phase) Active() bool {
	return phase == PhaseWorking || phase == PhaseResting
}
