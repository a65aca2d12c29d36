package pomodoro

import (
	"fmt"
	"math"
	"time"
)

// MinWorkDuration is the floor a work phase can be shortened to.
const MinWorkDuration = 5 * time.Minute

// restDivisor fixes the rest phase at one fifth of the work phase.
const restDivisor = 5

const maxDuration = time.Duration(math.MaxInt64)

// Timer is the interval state machine. It alternates work and rest phases
// against a single absolute deadline read from its Clock; it never
// accumulates per-tick deltas, so irregular polling cannot drift it.
//
// Every method is a total function: out-of-range input saturates or is
// ignored, nothing panics or returns an error. The Timer is plain mutable
// state with no internal locking; a concurrent host must serialize calls.
type Timer struct {
	clock  Clock
	ringer Ringer

	workDuration time.Duration
	restDuration time.Duration
	deadline     time.Time
	phase        Phase

	// Set while PhasePaused: the instant pausing began and the phase
	// that was active then, so Resume restores it exactly.
	pausedAt  time.Time
	prevPhase Phase
}

// New creates an inactive Timer with the given work duration. The rest
// duration is derived from it and tracks later adjustments. A nil clock
// falls back to the system clock; a nil ringer disables alerts.
func New(workDuration time.Duration, clock Clock, ringer Ringer) *Timer {
	if clock == nil {
		clock = SystemClock()
	}
	if workDuration < 0 {
		workDuration = 0
	}
	return &Timer{
		clock:        clock,
		ringer:       ringer,
		workDuration: workDuration,
		restDuration: workDuration / restDivisor,
		phase:        PhaseInactive,
	}
}

// Start begins a work phase from inactive, or resumes a paused one.
// Starting with a zero work duration is a no-op.
func (timer *Timer) Start() {
	switch timer.phase {
	case PhaseInactive:
		if timer.workDuration == 0 {
			return
		}
		timer.deadline = timer.clock.Now().Add(timer.workDuration)
		timer.phase = PhaseWorking
	case PhasePaused:
		timer.resume()
	}
}

// Stop pauses a running phase, freezing its remaining time. Stopping a
// timer that is not running is a no-op.
func (timer *Timer) Stop() {
	if !timer.phase.Active() {
		return
	}
	timer.prevPhase = timer.phase
	timer.pausedAt = timer.clock.Now()
	timer.phase = PhasePaused
}

// Resume continues a paused phase where it left off. Resuming a timer
// that is not paused is a no-op.
func (timer *Timer) Resume() {
	if timer.phase != PhasePaused {
		return
	}
	timer.resume()
}

// resume shifts the deadline forward by exactly the span spent paused,
// so remaining time is unchanged, and restores the pre-pause phase.
func (timer *Timer) resume() {
	paused := timer.clock.Now().Sub(timer.pausedAt)
	if paused < 0 {
		paused = 0
	}
	timer.deadline = timer.deadline.Add(paused)
	timer.phase = timer.prevPhase
	timer.pausedAt = time.Time{}
}

// TogglePause pauses a running timer and starts or resumes a stopped one.
func (timer *Timer) TogglePause() {
	if timer.phase.Active() {
		timer.Stop()
		return
	}
	timer.Start()
}

// Reset discards the current deadline and progress and returns the timer
// to the inactive phase. Durations are kept.
func (timer *Timer) Reset() {
	timer.phase = PhaseInactive
	timer.deadline = time.Time{}
	timer.pausedAt = time.Time{}
}

// Update advances the state machine: when the deadline of a running phase
// has passed it performs exactly one flip, otherwise it does nothing.
// Hosts call this on every poll before reading displayed state. A poll
// delayed past a whole phase still flips once; the next phase restarts
// from now rather than cascading.
func (timer *Timer) Update() {
	if timer.phase.Active() && timer.Remaining() == 0 {
		timer.Flip()
	}
}

// Flip switches between the work and rest phases, setting a fresh
// deadline for the phase entered and ringing the alert. Flipping an
// inactive timer starts it; flipping a paused one resumes into the
// opposite of the phase that was paused.
func (timer *Timer) Flip() {
	now := timer.clock.Now()
	switch timer.phase {
	case PhaseWorking:
		timer.phase = PhaseResting
		timer.deadline = now.Add(timer.restDuration)
	case PhaseResting:
		timer.phase = PhaseWorking
		timer.deadline = now.Add(timer.workDuration)
	case PhaseInactive:
		if timer.workDuration == 0 {
			return
		}
		timer.phase = PhaseWorking
		timer.deadline = now.Add(timer.workDuration)
	case PhasePaused:
		if timer.prevPhase == PhaseWorking {
			timer.phase = PhaseResting
			timer.deadline = now.Add(timer.restDuration)
		} else {
			timer.phase = PhaseWorking
			timer.deadline = now.Add(timer.workDuration)
		}
		timer.pausedAt = time.Time{}
	}
	if timer.ringer != nil {
		timer.ringer.Ring()
	}
}

// Remaining returns the time left in the current phase: the span to the
// deadline while running, the span frozen at the pause instant while
// paused, and the full work duration while inactive. Never negative.
func (timer *Timer) Remaining() time.Duration {
	var remaining time.Duration
	switch timer.phase {
	case PhaseWorking, PhaseResting:
		remaining = timer.deadline.Sub(timer.clock.Now())
	case PhasePaused:
		remaining = timer.deadline.Sub(timer.pausedAt)
	case PhaseInactive:
		remaining = timer.workDuration
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IncreaseDuration lengthens the work duration by delta, saturating at
// the maximum representable span, and recomputes the rest duration. An
// in-progress deadline is shifted by the same delta so the running
// phase's remaining time grows by exactly delta.
func (timer *Timer) IncreaseDuration(delta time.Duration) {
	if delta <= 0 {
		return
	}
	if timer.workDuration > maxDuration-delta {
		timer.workDuration = maxDuration
	} else {
		timer.workDuration += delta
	}
	timer.restDuration = timer.workDuration / restDivisor
	timer.shiftDeadline(delta)
}

// DecreaseDuration shortens the work duration by delta, saturating at
// MinWorkDuration, and recomputes the rest duration. An in-progress
// deadline is shifted back by the same delta.
func (timer *Timer) DecreaseDuration(delta time.Duration) {
	if delta <= 0 {
		return
	}
	timer.workDuration -= delta
	if timer.workDuration < MinWorkDuration {
		timer.workDuration = MinWorkDuration
	}
	timer.restDuration = timer.workDuration / restDivisor
	timer.shiftDeadline(-delta)
}

// shiftDeadline moves an active deadline by delta. If the shifted instant
// would wrap around, the deadline is left untouched; the duration change
// itself still stands.
func (timer *Timer) shiftDeadline(delta time.Duration) {
	if !timer.phase.Active() && timer.phase != PhasePaused {
		return
	}
	shifted := timer.deadline.Add(delta)
	if delta > 0 && shifted.Before(timer.deadline) {
		return
	}
	if delta < 0 && shifted.After(timer.deadline) {
		return
	}
	timer.deadline = shifted
}

// Phase returns the current phase.
func (timer *Timer) Phase() Phase { return timer.phase }

// WorkDuration returns the configured work phase length.
func (timer *Timer) WorkDuration() time.Duration { return timer.workDuration }

// RestDuration returns the derived rest phase length.
func (timer *Timer) RestDuration() time.Duration { return timer.restDuration }

// String renders the remaining time as minutes:seconds with the seconds
// zero-padded, e.g. "24:05".
func (timer *Timer) String() string {
	seconds := int(timer.Remaining().Seconds())
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
