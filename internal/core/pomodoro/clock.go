package pomodoro

import "time"

// Clock supplies the current instant. The timer does all of its deadline
// arithmetic against values returned from here, so substituting a fake
// clock makes every transition deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the standard time package.
// time.Now carries a monotonic reading, so deadlines derived from it are
// immune to wall-clock adjustments.
func SystemClock() Clock { return systemClock{} }

// Ringer is notified once per phase flip.
type Ringer interface {
	Ring()
}

// RingerFunc adapts a plain function to the Ringer interface.
type RingerFunc func()

// Ring calls the wrapped function.
func (ring RingerFunc) Ring() { ring() }
