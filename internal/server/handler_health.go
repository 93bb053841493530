package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Queue     string `json:"queue"`
	Store     string `json:"store"`
	Emails    int    `json:"emails"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	resp := healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Queue:     s.queue.Snapshot().Phase.String(),
		Store:     "ok",
	}
	counts, err := s.store.CountEmails(r.Context())
	if err != nil {
		s.logger.Warn("health: store unavailable", "error", err)
		resp.Status = "degraded"
		resp.Store = "unavailable"
	}
	resp.Emails = counts.Total
	respondOK(w, reqID, resp)
}
