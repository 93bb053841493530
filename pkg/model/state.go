package model

// QueuePhase represents the lifecycle state of a queue run.
type QueuePhase string

const (
	QueuePhaseIdle    QueuePhase = "IDLE"
	QueuePhaseRunning QueuePhase = "RUNNING"
	QueuePhasePaused  QueuePhase = "PAUSED"
	QueuePhaseDrained QueuePhase = "DRAINED"
)

// String returns the string representation of the queue phase.
func (p QueuePhase) String() string {
	return string(p)
}

// IsTerminal returns true once every item of the run has completed.
func (p QueuePhase) IsTerminal() bool {
	return p == QueuePhaseDrained
}

// ValidQueueTransitions defines the allowed phase transitions. Reset and
// reload leave any phase through a fresh run and are not listed here.
var ValidQueueTransitions = map[QueuePhase][]QueuePhase{
	QueuePhaseIdle:    {QueuePhaseRunning, QueuePhaseDrained},
	QueuePhaseRunning: {QueuePhasePaused, QueuePhaseDrained},
	QueuePhasePaused:  {QueuePhaseRunning, QueuePhaseDrained},
}

// CanTransitionTo returns true if moving from the current phase to next is valid.
func (p QueuePhase) CanTransitionTo(next QueuePhase) bool {
	for _, allowed := range ValidQueueTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}
