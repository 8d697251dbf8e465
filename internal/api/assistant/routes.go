package assistant

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers assistant routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Post("/search", h.Search)
		r.Post("/theme", h.ClassifyTheme)
		r.Get("/conversations/{conversation_id}/theme", h.ConversationTheme)
	})
}
