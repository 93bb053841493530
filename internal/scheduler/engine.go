package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/me/triage/internal/clock"
	"github.com/me/triage/pkg/model"
)

// Engine implements Scheduler with two timers: a self re-arming cadence
// timer that picks up the next item and a one-shot completion timer that
// finishes the item in flight. All state lives behind mu; timer callbacks
// carry a generation number and are dropped if the timer they belong to
// was stopped or replaced after they were scheduled.
type Engine struct {
	mu     sync.Mutex
	clock  clock.Clock
	config Config
	logger *slog.Logger

	items []model.WorkItem
	byID  map[string]model.WorkItem

	order     []string
	completed []string
	done      map[string]struct{}
	inFlight  string
	phase     model.QueuePhase

	cadence       *clock.Timer
	cadenceGen    uint64
	completion    *clock.Timer
	completionGen uint64

	version   uint64
	updatedAt time.Time
	closed    bool
}

// Option configures optional Engine dependencies.
type Option func(*Engine)

// WithClock sets the time source. Defaults to clock.Real().
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine for items. The engine starts idle, or drained
// when there is nothing to process; call Start to begin.
func New(items []model.WorkItem, cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		clock:  clock.Real(),
		config: cfg.normalize(),
		logger: logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(items)
	e.phase = model.QueuePhaseIdle
	if len(e.order) == 0 {
		e.phase = model.QueuePhaseDrained
	}
	e.touchLocked()
	return e
}

// Config returns the effective timing configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Start begins the processing cadence. The first item is picked up one
// cadence after Start. No-op when already running or drained.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.phase == model.QueuePhaseRunning || e.phase == model.QueuePhaseDrained {
		return
	}
	if len(e.order) == 0 {
		e.drainLocked()
		return
	}
	from := e.phase
	e.setPhaseLocked(model.QueuePhaseRunning)
	e.armCadenceLocked()
	e.logger.Info("queue started", "from", from, "remaining", len(e.order)-len(e.completed))
}

// Resume is equivalent to Start.
func (e *Engine) Resume() {
	e.Start()
}

// Pause stops the cadence. The completion timer of an item already in
// flight keeps running, so that item can still complete while paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.phase != model.QueuePhaseRunning {
		return
	}
	e.stopCadenceLocked()
	e.setPhaseLocked(model.QueuePhasePaused)
	e.logger.Info("queue paused", "in_flight", e.inFlight, "completed", len(e.completed))
}

// Reset discards progress, cancels both timers, re-orders the current item
// set and starts processing again right away.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.cancelTimersLocked()
	e.loadLocked(e.items)
	if len(e.order) == 0 {
		e.phase = model.QueuePhaseDrained
		e.touchLocked()
		e.logger.Info("queue reset", "items", 0)
		return
	}
	e.phase = model.QueuePhaseRunning
	e.touchLocked()
	e.armCadenceLocked()
	e.logger.Info("queue reset", "items", len(e.order))
}

// Load replaces the item set. Progress is discarded and the engine
// returns to idle (drained for an empty set).
func (e *Engine) Load(items []model.WorkItem) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.cancelTimersLocked()
	e.loadLocked(items)
	e.phase = model.QueuePhaseIdle
	if len(e.order) == 0 {
		e.phase = model.QueuePhaseDrained
	}
	e.touchLocked()
	e.logger.Info("queue loaded", "items", len(e.order), "phase", e.phase)
}

// Close cancels all pending timers.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.cancelTimersLocked()
	e.closed = true
	e.logger.Debug("scheduler closed")
}

// Progress returns the completed share of the queue as a percentage, 0
// for an empty queue.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

// StatusOf reports the processing status of id. Ids not in the queue
// report WAITING.
func (e *Engine) StatusOf(id string) model.ItemStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked(id)
}

// QueuePosition returns the 1-based rank of id among the items that have
// not completed yet. It is false for completed or unknown ids.
func (e *Engine) QueuePosition(id string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rank := 0
	for _, oid := range e.order {
		if _, ok := e.done[oid]; ok {
			continue
		}
		rank++
		if oid == id {
			return rank, true
		}
	}
	return 0, false
}

// Snapshot returns a copy of the current queue state.
func (e *Engine) Snapshot() model.QueueSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := model.QueueSnapshot{
		Phase:          e.phase,
		Running:        e.phase == model.QueuePhaseRunning,
		Progress:       e.progressLocked(),
		Total:          len(e.order),
		CompletedCount: len(e.completed),
		InFlight:       e.inFlight,
		Order:          append([]string{}, e.order...),
		Completed:      append([]string{}, e.completed...),
		Entries:        make([]model.QueueEntry, 0, len(e.order)),
		Version:        e.version,
		UpdatedAt:      e.updatedAt,
	}
	if e.inFlight != "" {
		snap.InFlightCount = 1
	}

	rank := 0
	for _, id := range e.order {
		item := e.byID[id]
		entry := model.QueueEntry{
			ID:         id,
			Priority:   item.Priority,
			ReceivedAt: item.ReceivedAt,
			Status:     e.statusLocked(id),
		}
		if entry.Status != model.ItemStatusCompleted {
			rank++
			entry.Position = rank
		}
		if item.Priority == model.PriorityUrgent {
			snap.UrgentCount++
		} else {
			snap.NormalCount++
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return snap
}

// loadLocked copies items, drops duplicate ids (first occurrence wins) and
// recomputes the order. Processing state is cleared.
func (e *Engine) loadLocked(items []model.WorkItem) {
	e.items = make([]model.WorkItem, 0, len(items))
	e.byID = make(map[string]model.WorkItem, len(items))
	for _, it := range items {
		if _, dup := e.byID[it.ID]; dup {
			e.logger.Warn("duplicate work item ignored", "id", it.ID)
			continue
		}
		e.byID[it.ID] = it
		e.items = append(e.items, it)
	}
	e.order = Order(e.items)
	e.completed = nil
	e.done = make(map[string]struct{}, len(e.order))
	e.inFlight = ""
}

func (e *Engine) armCadenceLocked() {
	e.cadenceGen++
	gen := e.cadenceGen
	e.cadence = e.clock.AfterFunc(e.config.Cadence, func() { e.onCadence(gen) })
}

func (e *Engine) stopCadenceLocked() {
	e.cadenceGen++
	e.cadence.Stop()
	e.cadence = nil
}

func (e *Engine) cancelTimersLocked() {
	e.stopCadenceLocked()
	e.completionGen++
	e.completion.Stop()
	e.completion = nil
}

// onCadence is the cadence timer callback.
func (e *Engine) onCadence(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || gen != e.cadenceGen || e.phase != model.QueuePhaseRunning {
		return
	}
	e.cadence = nil
	e.tickLocked()
	if e.phase == model.QueuePhaseRunning {
		e.armCadenceLocked()
	}
}

// tickLocked picks up the next item unless one is already in flight.
func (e *Engine) tickLocked() {
	if e.inFlight != "" {
		return
	}
	next := e.nextPendingLocked()
	if next == "" {
		e.drainLocked()
		return
	}
	e.inFlight = next
	e.touchLocked()

	e.completionGen++
	gen := e.completionGen
	e.completion = e.clock.AfterFunc(e.config.ProcessingTime, func() { e.onComplete(gen, next) })
	e.logger.Debug("item processing", "id", next, "priority", e.byID[next].Priority)
}

// onComplete is the completion timer callback. It runs whatever the phase
// is; only Reset, Load and Close discard it.
func (e *Engine) onComplete(gen uint64, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || gen != e.completionGen || e.inFlight != id {
		return
	}
	e.completion = nil
	e.inFlight = ""
	e.completed = append(e.completed, id)
	e.done[id] = struct{}{}
	e.touchLocked()
	e.logger.Debug("item completed", "id", id, "completed", len(e.completed), "total", len(e.order))

	if len(e.completed) == len(e.order) {
		e.drainLocked()
	}
}

func (e *Engine) nextPendingLocked() string {
	for _, id := range e.order {
		if _, ok := e.done[id]; !ok {
			return id
		}
	}
	return ""
}

func (e *Engine) drainLocked() {
	e.stopCadenceLocked()
	e.setPhaseLocked(model.QueuePhaseDrained)
	e.logger.Info("queue drained", "completed", len(e.completed))
}

// setPhaseLocked moves to next if the transition table allows it.
func (e *Engine) setPhaseLocked(next model.QueuePhase) {
	if e.phase == next {
		return
	}
	if !e.phase.CanTransitionTo(next) {
		err := &model.InvalidTransitionError{Entity: "queue", From: e.phase.String(), To: next.String()}
		e.logger.Warn("phase change rejected", "error", err)
		return
	}
	e.phase = next
	e.touchLocked()
}

func (e *Engine) touchLocked() {
	e.version++
	e.updatedAt = e.clock.Now()
}

func (e *Engine) progressLocked() float64 {
	if len(e.order) == 0 {
		return 0
	}
	return float64(len(e.completed)) / float64(len(e.order)) * 100
}

func (e *Engine) statusLocked(id string) model.ItemStatus {
	if id != "" && id == e.inFlight {
		return model.ItemStatusProcessing
	}
	if _, ok := e.done[id]; ok {
		return model.ItemStatusCompleted
	}
	return model.ItemStatusWaiting
}
