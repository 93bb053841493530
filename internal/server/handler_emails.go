package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/me/triage/pkg/model"
)

// queueInfo is the processing view of one email.
type queueInfo struct {
	InQueue  bool             `json:"in_queue"`
	Status   model.ItemStatus `json:"status,omitempty"`
	Position int              `json:"position,omitempty"`
}

type emailDetail struct {
	*model.Email
	Queue queueInfo `json:"queue"`
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	f, apiErr := parseEmailFilter(r)
	if apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	emails, total, err := s.store.ListEmails(r.Context(), f)
	if err != nil {
		s.respondInternal(w, reqID, err)
		return
	}
	if emails == nil {
		emails = []*model.Email{}
	}
	f.Clamp()
	respondList(w, reqID, emails, model.NewPagination(total, f.ListOptions, len(emails)))
}

func (s *Server) handleGetEmail(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	e, err := s.store.GetEmail(r.Context(), id)
	if err != nil {
		s.respondInternal(w, reqID, err)
		return
	}
	if e == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("email", id))
		return
	}

	var info queueInfo
	if entry, ok := s.queue.Snapshot().Entry(id); ok {
		info = queueInfo{InQueue: true, Status: entry.Status, Position: entry.Position}
	}
	respondOK(w, reqID, emailDetail{Email: e, Queue: info})
}

// parseEmailFilter reads list query parameters. "all" or an empty value
// disables a filter.
func parseEmailFilter(r *http.Request) (model.EmailFilter, *model.APIError) {
	q := r.URL.Query()
	f := model.EmailFilter{
		Search:      strings.TrimSpace(q.Get("q")),
		ListOptions: model.DefaultListOptions(),
	}
	var errs []model.FieldError

	if v := filterValue(q.Get("priority")); v != "" {
		f.Priority = model.Priority(v)
		if !f.Priority.Valid() {
			errs = append(errs, model.FieldError{Field: "priority", Message: "must be urgent or normal"})
		}
	}
	if v := filterValue(q.Get("sentiment")); v != "" {
		f.Sentiment = model.Sentiment(v)
		if !f.Sentiment.Valid() {
			errs = append(errs, model.FieldError{Field: "sentiment", Message: "must be positive, neutral or negative"})
		}
	}
	if v := filterValue(q.Get("status")); v != "" {
		f.Status = model.EmailStatus(v)
		if !f.Status.Valid() {
			errs = append(errs, model.FieldError{Field: "status", Message: "must be pending, processing or resolved"})
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, model.FieldError{Field: "limit", Message: "must be a positive integer"})
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, model.FieldError{Field: "offset", Message: "must be a non-negative integer"})
		}
		f.Offset = n
	}

	if len(errs) > 0 {
		return f, model.NewValidationError("invalid query parameters", errs...)
	}
	return f, nil
}

func filterValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}
