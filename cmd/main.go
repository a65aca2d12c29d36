package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"

	"pomogo/internal/alert"
	"pomogo/internal/config"
	"pomogo/internal/core/engine"
	"pomogo/internal/core/pomodoro"
	"pomogo/internal/logger"
	"pomogo/internal/platform"
	"pomogo/internal/session"
	"pomogo/internal/ui"
	"pomogo/internal/ui/tray"
)

const appName = "pomogo"

// durationStep is how much one +/- press or keystroke changes the work
// duration, matching the 5-minute pomodoro granularity.
const durationStep = 5 * time.Minute

func main() {
	settings, err := config.Load(appName)
	if err != nil {
		// Defaults are still usable; report once the logger exists.
		settings = config.DefaultSettings()
	}

	log, logErr := logger.New(settings.LogLevel)
	if logErr != nil {
		log = zap.NewNop()
	}
	defer func() {
		_ = log.Sync()
	}()
	if err != nil {
		log.Warn("settings load failed, using defaults", zap.Error(err))
	}

	if settings.Headless {
		runHeadless(settings, log)
		return
	}
	runDesktop(settings, log)
}

func runDesktop(settings config.Settings, log *zap.Logger) {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Warn("another instance is already running")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("dev.pomogo.app")

	// The engine variable is captured before assignment so ringers can
	// read the phase after a flip; they only fire once it is running.
	var timerEngine *engine.Engine
	currentPhase := func() pomodoro.Phase { return timerEngine.Phase() }

	ringers := alert.Multi{alert.NewLogger(log, currentPhase)}
	if settings.Notifications {
		ringers = append(ringers, alert.NewNotification(fyneApp, currentPhase))
	}

	timerEngine = engine.New(settings.TimerConfig(), engine.Options{
		Ringer: ringers,
		Logger: log,
	})

	sessions := session.NewLog()
	tracker := session.NewTracker(sessions)

	window := ui.New(fyneApp, ui.Callbacks{
		OnStart:       func() { timerEngine.Begin() },
		OnTogglePause: func() { timerEngine.TogglePause() },
		OnReset:       func() { timerEngine.Reset() },
		OnFlip:        func() { timerEngine.Flip() },
		OnIncrease:    func() { timerEngine.IncreaseDuration(durationStep) },
		OnDecrease:    func() { timerEngine.DecreaseDuration(durationStep) },
	})

	quit := func() {
		timerEngine.Stop()
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        func() { window.Show() },
			OnTogglePause: func() { timerEngine.TogglePause() },
			OnFlip:        func() { timerEngine.Flip() },
			OnReset:       func() { timerEngine.Reset() },
			OnQuit:        quit,
		})
		// With a tray present, closing the window just hides it; the
		// timer keeps running until Quit.
		window.Window().SetCloseIntercept(func() {
			window.Window().Hide()
		})
	}

	startOfDay := startOfToday()
	events := timerEngine.Subscribe(5)
	go func() {
		for event := range events {
			event := event
			switch event.Type {
			case engine.EventPhaseChange:
				if record, done := tracker.Observe(event.Phase, timerEngine.WorkDuration(), event.At); done {
					log.Info("work session complete",
						zap.String("session_id", record.ID.String()),
						zap.Duration("actual", record.Actual),
					)
				}
				completed := sessions.CompletedSince(startOfDay)
				fyne.Do(func() {
					window.SetPhase(event.Phase)
					window.SetDisplay(event.Display)
					window.SetCompleted(completed)
					if trayManager != nil {
						trayManager.SetPaused(event.Phase == pomodoro.PhasePaused)
						trayManager.SetStatus(string(event.Phase) + " " + event.Display)
					}
				})
			case engine.EventProgress:
				fyne.Do(func() {
					window.SetDisplay(event.Display)
					if trayManager != nil {
						trayManager.SetStatus(string(event.Phase) + " " + event.Display)
					}
				})
			}
		}
	}()

	timerEngine.Start()

	window.SetDisplay(timerEngine.Display())
	window.Show()
	fyneApp.Run()

	// Run returns on Quit or when the last window closes; either way the
	// adjusted duration is saved here, on the one exit path.
	timerEngine.Stop()
	persistSettings(settings, timerEngine.WorkDuration(), log)
}

// persistSettings writes the adjusted work duration back as a preference.
// Timer progress itself is never persisted.
func persistSettings(settings config.Settings, workDuration time.Duration, log *zap.Logger) {
	settings.WorkDuration = workDuration
	if err := config.Save(appName, settings); err != nil {
		log.Warn("settings save failed", zap.Error(err))
	}
}

// runHeadless drives the engine without a display: the timer starts
// immediately, flips are logged, and the process exits on SIGINT/SIGTERM.
func runHeadless(settings config.Settings, log *zap.Logger) {
	var timerEngine *engine.Engine
	currentPhase := func() pomodoro.Phase { return timerEngine.Phase() }

	timerEngine = engine.New(settings.TimerConfig(), engine.Options{
		Ringer: alert.NewLogger(log, currentPhase),
		Logger: log,
	})

	sessions := session.NewLog()
	tracker := session.NewTracker(sessions)

	events := timerEngine.Subscribe(5)
	go func() {
		for event := range events {
			if event.Type != engine.EventPhaseChange {
				continue
			}
			if record, done := tracker.Observe(event.Phase, timerEngine.WorkDuration(), event.At); done {
				log.Info("work session complete",
					zap.String("session_id", record.ID.String()),
					zap.Duration("actual", record.Actual),
				)
			}
			log.Info("phase",
				zap.String("phase", string(event.Phase)),
				zap.String("remaining", event.Display),
				zap.Int("completed", len(sessions.Records())),
			)
		}
	}()

	timerEngine.Start()
	timerEngine.Begin()
	log.Info("running headless", zap.Duration("work_duration", settings.WorkDuration))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	timerEngine.Stop()
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
