// Package session keeps an in-memory record of finished work phases.
// Nothing is written to disk; the log lives and dies with the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pomogo/internal/core/pomodoro"
)

// Record describes one completed work phase.
type Record struct {
	ID        uuid.UUID
	StartedAt time.Time
	EndedAt   time.Time
	// Planned is the configured work duration when the phase began;
	// Actual is the wall span until it ended, pauses included.
	Planned time.Duration
	Actual  time.Duration
}

// Log is a concurrency-safe append-only list of records.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// NewLog creates an empty session log.
func NewLog() *Log {
	return &Log{}
}

// Add appends a completed work phase and returns its record.
func (log *Log) Add(startedAt, endedAt time.Time, planned time.Duration) Record {
	record := Record{
		ID:        uuid.New(),
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Planned:   planned,
		Actual:    endedAt.Sub(startedAt),
	}
	log.mu.Lock()
	log.records = append(log.records, record)
	log.mu.Unlock()
	return record
}

// Records returns a copy of all records.
func (log *Log) Records() []Record {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]Record(nil), log.records...)
}

// CompletedSince counts records that ended at or after the given instant.
func (log *Log) CompletedSince(since time.Time) int {
	log.mu.Lock()
	defer log.mu.Unlock()
	count := 0
	for _, record := range log.records {
		if !record.EndedAt.Before(since) {
			count++
		}
	}
	return count
}

// Tracker turns a stream of observed phases into session records. Feed it
// every phase-change event; it opens a session when work begins, keeps it
// open across pauses, closes it into the log when rest begins, and
// discards it on reset.
type Tracker struct {
	log       *Log
	inWork    bool
	startedAt time.Time
	planned   time.Duration
}

// NewTracker creates a tracker writing into log.
func NewTracker(log *Log) *Tracker {
	return &Tracker{log: log}
}

// Observe records a phase observed at the given instant. The planned
// duration is the work duration configured at that moment. When the
// observation closes a work session, the logged record is returned with
// true so the host can report it.
func (tracker *Tracker) Observe(phase pomodoro.Phase, planned time.Duration, at time.Time) (Record, bool) {
	switch phase {
	case pomodoro.PhaseWorking:
		if !tracker.inWork {
			tracker.inWork = true
			tracker.startedAt = at
			tracker.planned = planned
		}
	case pomodoro.PhaseResting:
		if tracker.inWork {
			tracker.inWork = false
			return tracker.log.Add(tracker.startedAt, at, tracker.planned), true
		}
	case pomodoro.PhaseInactive:
		tracker.inWork = false
	}
	// PhasePaused leaves an open session open.
	return Record{}, false
}
