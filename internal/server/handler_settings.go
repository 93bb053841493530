package server

import (
	"net/http"

	"github.com/me/triage/internal/config"
)

type processingSettings struct {
	Cadence   string `json:"cadence"`
	Duration  string `json:"duration"`
	AutoStart bool   `json:"auto_start"`
}

type settingsResponse struct {
	Processing processingSettings       `json:"processing"`
	Dashboard  config.DashboardSettings `json:"dashboard"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	p := s.config.Processing
	respondOK(w, RequestIDFromContext(r.Context()), settingsResponse{
		Processing: processingSettings{
			Cadence:   p.Cadence.String(),
			Duration:  p.Duration.String(),
			AutoStart: p.AutoStart,
		},
		Dashboard: s.config.Dashboard,
	})
}
