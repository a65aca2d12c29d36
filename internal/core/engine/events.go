package engine

import (
	"time"

	"pomogo/internal/core/pomodoro"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventProgress    EventType = "progress"
)

// Event represents a timer update for observers.
type Event struct {
	Type      EventType
	Phase     pomodoro.Phase
	Remaining time.Duration
	Display   string
	At        time.Time
}
