package scheduler

import (
	"time"

	"github.com/me/triage/pkg/model"
)

// Scheduler orders a fixed set of work items and processes them one at a
// time on a timed cadence. Commands never fail: a command that does not
// apply to the current phase is a no-op.
type Scheduler interface {
	// Start begins (or resumes) the processing cadence.
	Start()

	// Pause stops new items from being picked up. An item already in
	// flight still completes.
	Pause()

	// Resume is Start under another name.
	Resume()

	// Reset discards all progress, re-orders the current item set and
	// immediately starts processing again.
	Reset()

	// Load replaces the item set and returns to the idle phase.
	Load(items []model.WorkItem)

	// Snapshot returns a copy of the current state.
	Snapshot() model.QueueSnapshot

	StatusOf(id string) model.ItemStatus
	QueuePosition(id string) (int, bool)
	Progress() float64

	// Close cancels all timers. Later commands are no-ops.
	Close()
}

// Config holds scheduler configuration.
type Config struct {
	// Cadence is how often the engine checks for the next item to start.
	Cadence time.Duration
	// ProcessingTime is how long one item stays in flight.
	ProcessingTime time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Cadence: 4 * time.Second, ProcessingTime: 3 * time.Second}
}

// normalize replaces non-positive durations with the defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Cadence <= 0 {
		c.Cadence = def.Cadence
	}
	if c.ProcessingTime <= 0 {
		c.ProcessingTime = def.ProcessingTime
	}
	return c
}
