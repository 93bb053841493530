package model

import "testing"

func TestQueuePhase_IsTerminal(t *testing.T) {
	tests := []struct {
		phase    QueuePhase
		terminal bool
	}{
		{QueuePhaseIdle, false},
		{QueuePhaseRunning, false},
		{QueuePhasePaused, false},
		{QueuePhaseDrained, true},
	}
	for _, tt := range tests {
		if got := tt.phase.IsTerminal(); got != tt.terminal {
			t.Errorf("QueuePhase(%q).IsTerminal() = %v, want %v", tt.phase, got, tt.terminal)
		}
	}
}

func TestQueuePhase_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from  QueuePhase
		to    QueuePhase
		valid bool
	}{
		// Valid transitions
		{QueuePhaseIdle, QueuePhaseRunning, true},
		{QueuePhaseIdle, QueuePhaseDrained, true},
		{QueuePhaseRunning, QueuePhasePaused, true},
		{QueuePhaseRunning, QueuePhaseDrained, true},
		{QueuePhasePaused, QueuePhaseRunning, true},
		{QueuePhasePaused, QueuePhaseDrained, true},

		// Invalid transitions
		{QueuePhaseIdle, QueuePhasePaused, false},
		{QueuePhaseRunning, QueuePhaseIdle, false},
		{QueuePhaseDrained, QueuePhaseRunning, false},
		{QueuePhaseDrained, QueuePhasePaused, false},
		{QueuePhaseDrained, QueuePhaseIdle, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.valid {
			t.Errorf("%s → %s: got %v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}
