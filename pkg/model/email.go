package model

import (
	"strings"
	"time"
)

// Priority is the triage tier an email belongs to.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Valid reports whether p is a known tier.
func (p Priority) Valid() bool {
	return p == PriorityUrgent || p == PriorityNormal
}

// Sentiment is the (precomputed) tone of an email.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// EmailStatus is the ticket status recorded in the catalog. It is input
// data, distinct from the scheduler's per-run ItemStatus.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusResolved   EmailStatus = "resolved"
)

// Valid reports whether s is a known email status.
func (s EmailStatus) Valid() bool {
	switch s {
	case EmailStatusPending, EmailStatusProcessing, EmailStatusResolved:
		return true
	}
	return false
}

// Queueable reports whether an email with this status enters the
// processing queue.
func (s EmailStatus) Queueable() bool {
	return s == EmailStatusPending || s == EmailStatusProcessing
}

// ExtractedInfo holds the details pulled out of an email body.
type ExtractedInfo struct {
	ContactDetails string   `json:"contact_details,omitempty" yaml:"contact_details,omitempty"`
	Requirements   []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Keywords       []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Email is one support request in the catalog.
type Email struct {
	ID            string        `json:"id" yaml:"id"`
	Sender        string        `json:"sender" yaml:"sender"`
	Subject       string        `json:"subject" yaml:"subject"`
	Body          string        `json:"body" yaml:"body"`
	ReceivedAt    time.Time     `json:"received_at" yaml:"received_at"`
	Priority      Priority      `json:"priority" yaml:"priority"`
	Sentiment     Sentiment     `json:"sentiment" yaml:"sentiment"`
	Status        EmailStatus   `json:"status" yaml:"status"`
	Category      string        `json:"category" yaml:"category"`
	ExtractedInfo ExtractedInfo `json:"extracted_info" yaml:"extracted_info"`
	AIResponse    string        `json:"ai_response,omitempty" yaml:"ai_response,omitempty"`
}

// WorkItem returns the scheduling view of the email.
func (e *Email) WorkItem() WorkItem {
	return WorkItem{ID: e.ID, Priority: e.Priority, ReceivedAt: e.ReceivedAt}
}

// Matches reports whether the email's subject or sender contains term,
// ignoring case. An empty term matches everything.
func (e *Email) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Subject), term) ||
		strings.Contains(strings.ToLower(e.Sender), term)
}

// WorkItems converts emails to their scheduling view, preserving order.
func WorkItems(emails []*Email) []WorkItem {
	items := make([]WorkItem, 0, len(emails))
	for _, e := range emails {
		items = append(items, e.WorkItem())
	}
	return items
}

// EmailFilter narrows catalog listings.
type EmailFilter struct {
	Search    string
	Priority  Priority
	Sentiment Sentiment
	Status    EmailStatus
	ListOptions
}

// EmailCounts summarises the catalog by status and tier.
type EmailCounts struct {
	Total      int `json:"total"`
	Urgent     int `json:"urgent"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Resolved   int `json:"resolved"`
}
