package server

import (
	"net/http"

	"github.com/me/triage/pkg/model"
)

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), s.queue.Snapshot())
}

// queueCommand wraps a scheduler command; the response is the snapshot
// taken right after it ran.
func (s *Server) queueCommand(name string, cmd func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := RequestIDFromContext(r.Context())
		cmd()
		snap := s.queue.Snapshot()
		s.logger.Debug("queue command", "command", name, "phase", snap.Phase, "request_id", reqID)
		respondOK(w, reqID, snap)
	}
}

func (s *Server) handleQueueStart(w http.ResponseWriter, r *http.Request) {
	s.queueCommand("start", s.queue.Start)(w, r)
}

func (s *Server) handleQueuePause(w http.ResponseWriter, r *http.Request) {
	s.queueCommand("pause", s.queue.Pause)(w, r)
}

func (s *Server) handleQueueResume(w http.ResponseWriter, r *http.Request) {
	s.queueCommand("resume", s.queue.Resume)(w, r)
}

func (s *Server) handleQueueReset(w http.ResponseWriter, r *http.Request) {
	s.queueCommand("reset", s.queue.Reset)(w, r)
}

// handleQueueReload replaces the queue with the catalog's current
// pending and processing emails. ?start=true starts the new run.
func (s *Server) handleQueueReload(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	emails, err := s.store.ListQueueable(r.Context())
	if err != nil {
		s.respondInternal(w, reqID, err)
		return
	}
	s.queue.Load(model.WorkItems(emails))
	if r.URL.Query().Get("start") == "true" {
		s.queue.Start()
	}
	snap := s.queue.Snapshot()
	s.logger.Info("queue reloaded", "items", snap.Total, "phase", snap.Phase, "request_id", reqID)
	respondOK(w, reqID, snap)
}
