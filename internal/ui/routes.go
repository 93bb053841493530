package ui

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Get("/", ui.HandleDashboard)
	r.Get("/emails/{id}", ui.HandleEmailDetail)

	r.Route("/queue", func(r chi.Router) {
		r.Get("/", ui.HandleQueue)
		r.Post("/toggle", ui.HandleQueueToggle)
		r.Post("/reset", ui.HandleQueueReset)
	})

	r.Get("/analytics", ui.HandleAnalytics)
	r.Get("/settings", ui.HandleSettings)
}
