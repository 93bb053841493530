package ui

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/me/triage/internal/analytics"
	"github.com/me/triage/internal/config"
	"github.com/me/triage/internal/scheduler"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
)

// UI handles the web user interface.
type UI struct {
	store    store.Store
	queue    scheduler.Scheduler
	logger   *slog.Logger
	volume   []model.VolumePoint
	settings config.DashboardSettings
}

// Config holds UI configuration.
type Config struct {
	Volume   []model.VolumePoint      // weekly series for the analytics page
	Settings config.DashboardSettings // shown on the settings page
}

// New creates a new UI handler.
func New(st store.Store, queue scheduler.Scheduler, logger *slog.Logger, cfg Config) *UI {
	return &UI{
		store:    st,
		queue:    queue,
		logger:   logger.With("component", "ui"),
		volume:   cfg.Volume,
		settings: cfg.Settings,
	}
}

type statCard struct {
	Label string
	Value int
	Color string
}

// queueRow joins a queue entry with the email it stands for. Email is nil
// when the catalog no longer has the id.
type queueRow struct {
	Entry model.QueueEntry
	Email *model.Email
}

// HandleDashboard renders the email list with filters and stat cards.
func (ui *UI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EmailFilter{
		Search:    strings.TrimSpace(q.Get("q")),
		Priority:  model.Priority(filterValue(q.Get("priority"))),
		Sentiment: model.Sentiment(filterValue(q.Get("sentiment"))),
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		filter.Priority = ""
	}
	if filter.Sentiment != "" && !filter.Sentiment.Valid() {
		filter.Sentiment = ""
	}

	emails, err := store.All(r.Context(), ui.store, filter)
	if err != nil {
		ui.renderError(w, "Failed to load emails", err)
		return
	}
	counts, err := ui.store.CountEmails(r.Context())
	if err != nil {
		ui.renderError(w, "Failed to count emails", err)
		return
	}

	urgentShown := 0
	for _, e := range emails {
		if e.Priority == model.PriorityUrgent {
			urgentShown++
		}
	}

	ui.render(w, http.StatusOK, "dashboard", map[string]any{
		"Title":       "Dashboard - Triage",
		"Filter":      filter,
		"Emails":      emails,
		"UrgentShown": urgentShown,
		"Cards": []statCard{
			{"Total Emails", counts.Total, "text-gray-900"},
			{"Urgent", urgentShown, "text-red-600"},
			{"Pending", counts.Pending, "text-yellow-600"},
			{"Resolved", counts.Resolved, "text-green-600"},
		},
	})
}

// HandleEmailDetail renders one email with its queue status.
func (ui *UI) HandleEmailDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := ui.store.GetEmail(r.Context(), id)
	if err != nil {
		ui.renderError(w, "Failed to load email", err)
		return
	}
	if e == nil {
		ui.renderNotFound(w, "Email Not Found", "No email with id "+id)
		return
	}

	entry, inQueue := ui.queue.Snapshot().Entry(id)
	ui.render(w, http.StatusOK, "email_detail", map[string]any{
		"Title":       e.Subject + " - Triage",
		"Email":       e,
		"InQueue":     inQueue,
		"QueueStatus": entry.Status,
		"Position":    entry.Position,
	})
}

// HandleQueue renders the processing queue split by tier.
func (ui *UI) HandleQueue(w http.ResponseWriter, r *http.Request) {
	snap := ui.queue.Snapshot()

	emails, err := store.All(r.Context(), ui.store, model.EmailFilter{})
	if err != nil {
		ui.renderError(w, "Failed to load emails", err)
		return
	}
	byID := make(map[string]*model.Email, len(emails))
	for _, e := range emails {
		byID[e.ID] = e
	}
	rows := func(p model.Priority) []queueRow {
		var out []queueRow
		for _, entry := range snap.Tier(p) {
			out = append(out, queueRow{Entry: entry, Email: byID[entry.ID]})
		}
		return out
	}

	ui.render(w, http.StatusOK, "queue", map[string]any{
		"Title":    "Priority Queue - Triage",
		"Snapshot": snap,
		"Urgent":   rows(model.PriorityUrgent),
		"Normal":   rows(model.PriorityNormal),
	})
}

// HandleQueueToggle pauses a running queue and starts any other.
func (ui *UI) HandleQueueToggle(w http.ResponseWriter, r *http.Request) {
	if ui.queue.Snapshot().Running {
		ui.queue.Pause()
	} else {
		ui.queue.Start()
	}
	http.Redirect(w, r, "/queue", http.StatusSeeOther)
}

// HandleQueueReset restarts the queue from scratch.
func (ui *UI) HandleQueueReset(w http.ResponseWriter, r *http.Request) {
	ui.queue.Reset()
	http.Redirect(w, r, "/queue", http.StatusSeeOther)
}

// HandleAnalytics renders the analytics summary.
func (ui *UI) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	emails, err := store.All(r.Context(), ui.store, model.EmailFilter{})
	if err != nil {
		ui.renderError(w, "Failed to load emails", err)
		return
	}
	ui.render(w, http.StatusOK, "analytics", map[string]any{
		"Title":   "Analytics - Triage",
		"Summary": analytics.Summarize(emails, ui.volume),
	})
}

// HandleSettings renders the read-only settings page.
func (ui *UI) HandleSettings(w http.ResponseWriter, r *http.Request) {
	ui.render(w, http.StatusOK, "settings", map[string]any{
		"Title":    "Settings - Triage",
		"Settings": ui.settings,
	})
}

// --- Helpers ---

func filterValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}

func (ui *UI) render(w http.ResponseWriter, status int, template string, data map[string]any) {
	if _, ok := data["QueuePhase"]; !ok {
		data["QueuePhase"] = ui.queue.Snapshot().Phase.String()
	}

	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	ui.render(w, http.StatusInternalServerError, "error", map[string]any{
		"Title":   "Error - Triage",
		"Heading": "Something went wrong",
		"Message": message,
	})
}

func (ui *UI) renderNotFound(w http.ResponseWriter, heading, message string) {
	ui.render(w, http.StatusNotFound, "error", map[string]any{
		"Title":   "Not Found - Triage",
		"Heading": heading,
		"Message": message,
	})
}
