package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/me/triage/pkg/model"
)

// handleSSEQueue streams queue snapshots via Server-Sent Events.
// GET /api/v1/sse/queue
//
// The stream opens with "init" and sends "update" whenever the snapshot
// version moves. It ends with "drained" once every item has completed,
// or with "closed" when the server shuts down.
func (s *Server) handleSSEQueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	snap := s.queue.Snapshot()
	if err := sendSSEEvent(w, flusher, "init", snap); err != nil {
		s.logger.Debug("sse client disconnected", "error", err)
		return
	}
	if snap.Phase == model.QueuePhaseDrained {
		if err := sendSSEEvent(w, flusher, "drained", snap); err != nil {
			s.logger.Debug("sse client disconnected", "error", err)
		}
		return
	}
	lastVersion := snap.Version

	ticker := time.NewTicker(s.sseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			if err := sendSSEEvent(w, flusher, "closed", s.queue.Snapshot()); err != nil {
				s.logger.Debug("sse client disconnected", "error", err)
			}
			return
		case <-ticker.C:
			snap = s.queue.Snapshot()

			if snap.Version != lastVersion {
				if err := sendSSEEvent(w, flusher, "update", snap); err != nil {
					s.logger.Debug("sse client disconnected", "error", err)
					return
				}
				lastVersion = snap.Version
			} else {
				fmt.Fprintf(w, ": heartbeat\n\n")
				flusher.Flush()
			}

			if snap.Phase == model.QueuePhaseDrained {
				if err := sendSSEEvent(w, flusher, "drained", snap); err != nil {
					s.logger.Debug("sse client disconnected", "error", err)
				}
				return
			}
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
