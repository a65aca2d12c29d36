package model

import "time"

// TimerConfig contains runtime settings for the interval timer.
type TimerConfig struct {
	WorkDuration time.Duration
	TickInterval time.Duration
}
