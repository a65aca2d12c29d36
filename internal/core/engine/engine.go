// Package engine owns a pomodoro.Timer on behalf of a concurrent host.
// The timer itself is single-threaded by contract; the engine serializes
// every command behind a mutex, polls Update on a fixed cadence, and
// publishes phase and progress events to subscriber channels.
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"pomogo/internal/core/model"
	"pomogo/internal/core/pomodoro"
)

// Options contains runtime options for the Engine.
type Options struct {
	Clock  pomodoro.Clock
	Ringer pomodoro.Ringer
	Logger *zap.Logger
}

// Engine drives a pomodoro.Timer from a ticker goroutine and fans its
// state out to observers.
type Engine struct {
	mu           sync.Mutex
	timer        *pomodoro.Timer
	tickInterval time.Duration
	ringer       pomodoro.Ringer
	rang         *ringLatch
	log          *zap.Logger
	events       []chan Event
	stopCh       chan struct{}
	running      bool
}

// ringLatch is the ringer injected into the timer. The timer rings while
// the engine mutex is held; the latch records the fact so the real ringer
// can be invoked after unlocking, free to call back into the engine.
type ringLatch struct {
	fired bool
}

func (latch *ringLatch) Ring() { latch.fired = true }

// New creates an Engine around a fresh timer built from config.
func New(config model.TimerConfig, options Options) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	latch := &ringLatch{}
	return &Engine{
		timer:        pomodoro.New(config.WorkDuration, options.Clock, latch),
		tickInterval: config.TickInterval,
		ringer:       options.Ringer,
		rang:         latch,
		log:          options.Logger,
		stopCh:       make(chan struct{}),
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Start launches the polling loop. The timer stays inactive until a
// command arrives.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	engine.mu.Unlock()

	engine.log.Info("engine started", zap.Duration("tick_interval", engine.tickInterval))
	go engine.run()
}

// Stop terminates the polling loop and closes observer channels.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	close(engine.stopCh)
	engine.running = false
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	engine.log.Info("engine stopped")
}

// Begin starts the timer from inactive or resumes it from paused.
func (engine *Engine) Begin() { engine.command((*pomodoro.Timer).Start) }

// Pause freezes the running phase.
func (engine *Engine) Pause() { engine.command((*pomodoro.Timer).Stop) }

// Resume continues a paused phase.
func (engine *Engine) Resume() { engine.command((*pomodoro.Timer).Resume) }

// TogglePause switches between paused and running.
func (engine *Engine) TogglePause() { engine.command((*pomodoro.Timer).TogglePause) }

// Reset returns the timer to inactive.
func (engine *Engine) Reset() { engine.command((*pomodoro.Timer).Reset) }

// Flip forces the work/rest transition immediately.
func (engine *Engine) Flip() { engine.command((*pomodoro.Timer).Flip) }

// IncreaseDuration lengthens the work duration.
func (engine *Engine) IncreaseDuration(delta time.Duration) {
	engine.command(func(timer *pomodoro.Timer) { timer.IncreaseDuration(delta) })
}

// DecreaseDuration shortens the work duration.
func (engine *Engine) DecreaseDuration(delta time.Duration) {
	engine.command(func(timer *pomodoro.Timer) { timer.DecreaseDuration(delta) })
}

// Phase returns the timer's current phase.
func (engine *Engine) Phase() pomodoro.Phase {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.timer.Phase()
}

// Remaining returns the timer's remaining time.
func (engine *Engine) Remaining() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.timer.Remaining()
}

// WorkDuration returns the configured work phase length.
func (engine *Engine) WorkDuration() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.timer.WorkDuration()
}

// Display returns the remaining time rendered as minutes:seconds.
func (engine *Engine) Display() string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.timer.String()
}

// command applies a mutation under the lock and publishes the resulting
// state as a phase-change event.
func (engine *Engine) command(apply func(*pomodoro.Timer)) {
	engine.mu.Lock()
	engine.rang.fired = false
	apply(engine.timer)
	event := engine.snapshotLocked(EventPhaseChange)
	fired := engine.rang.fired
	engine.mu.Unlock()

	if fired {
		engine.ring()
	}
	engine.emit(event)
}

func (engine *Engine) run() {
	ticker := time.NewTicker(engine.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case tickTime := <-ticker.C:
			engine.tick(tickTime)
		}
	}
}

func (engine *Engine) tick(tickTime time.Time) {
	engine.mu.Lock()
	before := engine.timer.Phase()
	engine.rang.fired = false
	engine.timer.Update()
	flipped := engine.timer.Phase() != before
	fired := engine.rang.fired
	progress := engine.snapshotLocked(EventProgress)
	change := engine.snapshotLocked(EventPhaseChange)
	engine.mu.Unlock()

	progress.At = tickTime
	change.At = tickTime

	if fired {
		engine.ring()
	}
	if flipped {
		engine.log.Debug("phase flipped", zap.String("phase", string(change.Phase)))
		engine.emit(change)
	}
	engine.emit(progress)
}

func (engine *Engine) ring() {
	if engine.ringer != nil {
		engine.ringer.Ring()
	}
}

func (engine *Engine) snapshotLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Phase:     engine.timer.Phase(),
		Remaining: engine.timer.Remaining(),
		Display:   engine.timer.String(),
		At:        time.Now(),
	}
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(event)
}

// emitLocked sends while still holding mu. Stop nils the subscriber list
// under the same lock before closing the channels, so a send can never
// race a close. The sends are non-blocking, so holding the lock is cheap.
func (engine *Engine) emitLocked(event Event) {
	events := append([]chan Event(nil), engine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
