// Package alert provides Ringer implementations the host hands to the
// engine: desktop notifications, log lines, or both.
package alert

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"pomogo/internal/core/pomodoro"
)

// Notification rings by sending a desktop notification. The phase getter
// is read at ring time, after the flip, so the message names the phase
// just entered.
type Notification struct {
	app   fyne.App
	phase func() pomodoro.Phase
}

// NewNotification creates a desktop notification ringer.
func NewNotification(app fyne.App, phase func() pomodoro.Phase) *Notification {
	return &Notification{app: app, phase: phase}
}

// Ring sends the notification for the current phase.
func (notification *Notification) Ring() {
	title, body := "Phase change", "The timer flipped."
	switch notification.phase() {
	case pomodoro.PhaseResting:
		title, body = "Break time", "Work phase finished. Step away for a bit."
	case pomodoro.PhaseWorking:
		title, body = "Back to work", "Rest phase finished."
	}
	notification.app.SendNotification(fyne.NewNotification(title, body))
}

// Logger rings by writing an info log line. Used headless or when
// desktop notifications are turned off.
type Logger struct {
	log   *zap.Logger
	phase func() pomodoro.Phase
}

// NewLogger creates a logging ringer.
func NewLogger(log *zap.Logger, phase func() pomodoro.Phase) *Logger {
	return &Logger{log: log, phase: phase}
}

// Ring logs the phase change.
func (logger *Logger) Ring() {
	logger.log.Info("phase change", zap.String("phase", string(logger.phase())))
}

// Multi fans a ring out to several ringers.
type Multi []pomodoro.Ringer

// Ring rings each ringer in order.
func (multi Multi) Ring() {
	for _, ringer := range multi {
		ringer.Ring()
	}
}
