package card

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers card routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.ListCards)

		r.Route("/{card_id}", func(r chi.Router) {
			r.Get("/", h.GetCard)
			r.Patch("/", h.UpdateCard)
			r.Delete("/", h.DeleteCard)
		})
	})
}

// RegisterSessionRoutes registers card routes nested under a session,
// sharing the flat handlers for the per-card operations.
func RegisterSessionRoutes(r chi.Router, h *Handler) {
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.ListSessionCards)

		r.Route("/{card_id}", func(r chi.Router) {
			r.Get("/", h.GetCard)
			r.Patch("/", h.UpdateCard)
			r.Delete("/", h.DeleteCard)
		})
	})
}
