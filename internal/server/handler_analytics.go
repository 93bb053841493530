package server

import (
	"net/http"

	"github.com/me/triage/internal/analytics"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	emails, err := store.All(r.Context(), s.store, model.EmailFilter{})
	if err != nil {
		s.respondInternal(w, reqID, err)
		return
	}
	respondOK(w, reqID, analytics.Summarize(emails, s.volume))
}
