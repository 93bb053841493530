package model

import "time"

// WorkItem is the part of an email the scheduler looks at. Everything
// else about the email is opaque payload.
type WorkItem struct {
	ID         string    `json:"id"`
	Priority   Priority  `json:"priority"`
	ReceivedAt time.Time `json:"received_at"`
}

// ItemStatus is an item's processing state within one queue run.
type ItemStatus string

const (
	ItemStatusWaiting    ItemStatus = "WAITING"
	ItemStatusProcessing ItemStatus = "PROCESSING"
	ItemStatusCompleted  ItemStatus = "COMPLETED"
)

// String returns the string representation of the item status.
func (s ItemStatus) String() string {
	return string(s)
}

// QueueEntry is one row of a queue snapshot.
type QueueEntry struct {
	ID         string     `json:"id"`
	Priority   Priority   `json:"priority"`
	ReceivedAt time.Time  `json:"received_at"`
	Status     ItemStatus `json:"status"`
	// Position is the 1-based rank among items not yet completed; 0 once
	// the item has completed.
	Position int `json:"position"`
}

// QueueSnapshot is a point-in-time, read-only copy of the scheduler state.
type QueueSnapshot struct {
	Phase          QueuePhase   `json:"phase"`
	Running        bool         `json:"running"`
	Progress       float64      `json:"progress"`
	Total          int          `json:"total"`
	UrgentCount    int          `json:"urgent_count"`
	NormalCount    int          `json:"normal_count"`
	CompletedCount int          `json:"completed_count"`
	InFlightCount  int          `json:"in_flight_count"`
	InFlight       string       `json:"in_flight,omitempty"`
	Order          []string     `json:"order"`
	Completed      []string     `json:"completed"`
	Entries        []QueueEntry `json:"entries"`
	Version        uint64       `json:"version"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Entry returns the snapshot row for id.
func (s QueueSnapshot) Entry(id string) (QueueEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return QueueEntry{}, false
}

// Tier returns the snapshot rows of one priority tier in queue order.
func (s QueueSnapshot) Tier(p Priority) []QueueEntry {
	var out []QueueEntry
	for _, e := range s.Entries {
		if e.Priority == p {
			out = append(out, e)
		}
	}
	return out
}
