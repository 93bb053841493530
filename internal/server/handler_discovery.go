package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "Triage API",
		Version:     "v1",
		Description: "Support ticket triage: email catalog, priority processing queue and analytics",
		Endpoints: []endpointInfo{
			{"/api/v1/emails", []string{"GET"}, "List emails. Query: q, priority, sentiment, status, limit, offset"},
			{"/api/v1/emails/{id}", []string{"GET"}, "Single email with its queue status and position"},
			{"/api/v1/queue", []string{"GET"}, "Processing queue snapshot"},
			{"/api/v1/queue/start", []string{"POST"}, "Start processing"},
			{"/api/v1/queue/pause", []string{"POST"}, "Pause processing; the item in flight still completes"},
			{"/api/v1/queue/resume", []string{"POST"}, "Resume processing"},
			{"/api/v1/queue/reset", []string{"POST"}, "Discard progress and restart"},
			{"/api/v1/queue/reload", []string{"POST"}, "Reload queueable emails from the catalog. Query: start=true to start right away"},
			{"/api/v1/analytics", []string{"GET"}, "Dashboard stats, distributions and weekly volume"},
			{"/api/v1/settings", []string{"GET"}, "Processing and dashboard settings"},
			{"/api/v1/sse/queue", []string{"GET"}, "Server-Sent Events stream of queue snapshots"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
