package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes. nested registers additional
// routes under /sessions/{session_id}, such as the session's cards.
func RegisterRoutes(r chi.Router, h *Handler, nested ...func(chi.Router)) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/", h.ListSessions)

		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Get("/export", h.ExportSession)

			for _, register := range nested {
				register(r)
			}
		})
	})
}
