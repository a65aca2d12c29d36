package pomodoro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time { return clock.current }

func (clock *fakeClock) Advance(d time.Duration) { clock.current = clock.current.Add(d) }

type countingRinger struct {
	rings int
}

func (ringer *countingRinger) Ring() { ringer.rings++ }

func newTestTimer(workDuration time.Duration) (*Timer, *fakeClock, *countingRinger) {
	clock := newFakeClock()
	ringer := &countingRinger{}
	return New(workDuration, clock, ringer), clock, ringer
}

func TestNewIsInactiveWithDerivedRest(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)

	assert.Equal(t, PhaseInactive, timer.Phase())
	assert.Equal(t, 25*time.Minute, timer.WorkDuration())
	assert.Equal(t, 5*time.Minute, timer.RestDuration())
	assert.Equal(t, 25*time.Minute, timer.Remaining())
}

func TestStartBeginsWorkPhase(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)

	timer.Start()

	require.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 25*time.Minute, timer.Remaining())

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 15*time.Minute, timer.Remaining())
}

func TestStartWithZeroDurationStaysInactive(t *testing.T) {
	timer, _, ringer := newTestTimer(0)

	timer.Start()

	assert.Equal(t, PhaseInactive, timer.Phase())
	assert.Zero(t, ringer.rings)
}

func TestUpdateFlipsWorkToRestAtDeadline(t *testing.T) {
	timer, clock, ringer := newTestTimer(25 * time.Minute)
	timer.Start()

	clock.Advance(25 * time.Minute)
	timer.Update()

	assert.Equal(t, PhaseResting, timer.Phase())
	assert.Equal(t, 5*time.Minute, timer.Remaining())
	assert.Equal(t, 1, ringer.rings)
}

func TestUpdateFlipsRestToWorkAtDeadline(t *testing.T) {
	timer, clock, ringer := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(25 * time.Minute)
	timer.Update()
	require.Equal(t, PhaseResting, timer.Phase())

	clock.Advance(5 * time.Minute)
	timer.Update()

	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 25*time.Minute, timer.Remaining())
	assert.Equal(t, 2, ringer.rings)
}

func TestUpdateIsIdempotentWhileTimeRemains(t *testing.T) {
	timer, clock, ringer := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)

	for i := 0; i < 5; i++ {
		timer.Update()
	}

	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 15*time.Minute, timer.Remaining())
	assert.Zero(t, ringer.rings)
}

func TestLatePollFlipsExactlyOnce(t *testing.T) {
	timer, clock, ringer := newTestTimer(25 * time.Minute)
	timer.Start()

	// Several whole phases elapse before the host polls again.
	clock.Advance(3 * time.Hour)
	timer.Update()

	assert.Equal(t, PhaseResting, timer.Phase())
	assert.Equal(t, 5*time.Minute, timer.Remaining())
	assert.Equal(t, 1, ringer.rings)
}

func TestStopFreezesRemainingTime(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)

	timer.Stop()
	require.Equal(t, PhasePaused, timer.Phase())
	frozen := timer.Remaining()

	clock.Advance(42 * time.Minute)
	assert.Equal(t, frozen, timer.Remaining())
	assert.Equal(t, 15*time.Minute, frozen)
}

func TestResumeShiftsDeadlineByPausedSpan(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)
	timer.Stop()

	clock.Advance(3 * time.Minute)
	timer.Resume()

	require.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 15*time.Minute, timer.Remaining())
}

func TestStartAlsoResumesFromPause(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)
	timer.Stop()
	clock.Advance(7 * time.Minute)

	timer.Start()

	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 15*time.Minute, timer.Remaining())
}

func TestResumeRestoresRestPhase(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(25 * time.Minute)
	timer.Update()
	require.Equal(t, PhaseResting, timer.Phase())

	clock.Advance(2 * time.Minute)
	timer.Stop()
	clock.Advance(30 * time.Minute)
	timer.Resume()

	assert.Equal(t, PhaseResting, timer.Phase())
	assert.Equal(t, 3*time.Minute, timer.Remaining())
}

func TestStopWhileInactiveOrPausedIsNoOp(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)

	timer.Stop()
	assert.Equal(t, PhaseInactive, timer.Phase())

	timer.Start()
	clock.Advance(time.Minute)
	timer.Stop()
	pausedAt := timer.pausedAt

	clock.Advance(time.Minute)
	timer.Stop()
	assert.Equal(t, pausedAt, timer.pausedAt)
	assert.Equal(t, 24*time.Minute, timer.Remaining())
}

func TestResumeWhileNotPausedIsNoOp(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)

	timer.Resume()
	assert.Equal(t, PhaseInactive, timer.Phase())

	timer.Start()
	clock.Advance(time.Minute)
	timer.Resume()
	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 24*time.Minute, timer.Remaining())
}

func TestTogglePauseAlternates(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)

	timer.TogglePause()
	require.Equal(t, PhaseWorking, timer.Phase())

	clock.Advance(5 * time.Minute)
	timer.TogglePause()
	require.Equal(t, PhasePaused, timer.Phase())

	clock.Advance(time.Hour)
	timer.TogglePause()
	require.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 20*time.Minute, timer.Remaining())
}

func TestResetReturnsToInactive(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)

	timer.Reset()

	assert.Equal(t, PhaseInactive, timer.Phase())
	assert.Equal(t, 25*time.Minute, timer.Remaining())
}

func TestRestStaysOneFifthOfWork(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)

	adjustments := []func(){
		func() { timer.IncreaseDuration(5 * time.Minute) },
		func() { timer.IncreaseDuration(30 * time.Minute) },
		func() { timer.DecreaseDuration(10 * time.Minute) },
		func() { timer.DecreaseDuration(3 * time.Hour) },
		func() { timer.IncreaseDuration(time.Minute) },
	}
	for _, adjust := range adjustments {
		adjust()
		assert.Equal(t, timer.WorkDuration()/5, timer.RestDuration())
	}
}

func TestDecreaseSaturatesAtFloor(t *testing.T) {
	timer, _, _ := newTestTimer(5 * time.Minute)

	timer.DecreaseDuration(60 * time.Minute)

	assert.Equal(t, 5*time.Minute, timer.WorkDuration())
	assert.Equal(t, time.Minute, timer.RestDuration())

	for i := 0; i < 10; i++ {
		timer.DecreaseDuration(time.Hour)
	}
	assert.Equal(t, 5*time.Minute, timer.WorkDuration())
}

func TestIncreaseSaturatesAtMaxDuration(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)

	timer.IncreaseDuration(maxDuration)

	assert.Equal(t, maxDuration, timer.WorkDuration())
	assert.Equal(t, maxDuration/5, timer.RestDuration())
}

func TestIncreaseShiftsActiveDeadline(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)

	timer.IncreaseDuration(5 * time.Minute)

	assert.Equal(t, 20*time.Minute, timer.Remaining())
	assert.Equal(t, 30*time.Minute, timer.WorkDuration())
}

func TestDecreaseShiftsActiveDeadline(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)

	timer.DecreaseDuration(5 * time.Minute)

	assert.Equal(t, 10*time.Minute, timer.Remaining())
	assert.Equal(t, 20*time.Minute, timer.WorkDuration())
}

func TestAdjustShiftsFrozenDeadlineWhilePaused(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)
	timer.Stop()
	require.Equal(t, 15*time.Minute, timer.Remaining())

	timer.IncreaseDuration(5 * time.Minute)
	assert.Equal(t, 20*time.Minute, timer.Remaining())

	timer.DecreaseDuration(10 * time.Minute)
	assert.Equal(t, 10*time.Minute, timer.Remaining())
}

func TestAdjustWhileInactiveLeavesNoDeadline(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)

	timer.IncreaseDuration(5 * time.Minute)
	assert.Equal(t, 30*time.Minute, timer.Remaining())

	timer.Start()
	assert.Equal(t, 30*time.Minute, timer.Remaining())
}

func TestNonPositiveAdjustmentsAreIgnored(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)

	timer.IncreaseDuration(0)
	timer.IncreaseDuration(-time.Minute)
	timer.DecreaseDuration(0)
	timer.DecreaseDuration(-time.Minute)

	assert.Equal(t, 25*time.Minute, timer.WorkDuration())
	assert.Equal(t, 5*time.Minute, timer.RestDuration())
}

func TestRemainingNeverNegative(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()

	// Deadline long past, no Update call yet.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, time.Duration(0), timer.Remaining())

	timer.Update()
	clock.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), timer.Remaining())
}

func TestResumeToleratesBackwardClock(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(10 * time.Minute)
	timer.Stop()

	// A clock that steps backward while paused must not shrink the
	// remaining time on resume: the paused span clamps to zero and the
	// deadline stays put, so the earlier "now" reads one minute more.
	clock.current = clock.current.Add(-time.Minute)
	timer.Resume()

	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 16*time.Minute, timer.Remaining())
}

func TestFlipWhileInactiveStartsWork(t *testing.T) {
	timer, _, ringer := newTestTimer(25 * time.Minute)

	timer.Flip()

	assert.Equal(t, PhaseWorking, timer.Phase())
	assert.Equal(t, 25*time.Minute, timer.Remaining())
	assert.Equal(t, 1, ringer.rings)
}

func TestFlipWhilePausedEntersOppositePhase(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()
	clock.Advance(time.Minute)
	timer.Stop()

	timer.Flip()

	assert.Equal(t, PhaseResting, timer.Phase())
	assert.Equal(t, 5*time.Minute, timer.Remaining())
}

func TestStringFormatsMinutesAndPaddedSeconds(t *testing.T) {
	timer, clock, _ := newTestTimer(25 * time.Minute)
	timer.Start()

	clock.Advance(55 * time.Second)
	assert.Equal(t, "24:05", timer.String())

	clock.Advance(24*time.Minute + 5*time.Second)
	assert.Equal(t, "0:00", timer.String())
}

func TestStringWhileInactiveShowsFullWorkDuration(t *testing.T) {
	timer, _, _ := newTestTimer(25 * time.Minute)
	assert.Equal(t, "25:00", timer.String())
}
