package chat

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/chat", h.HandleChat)
	r.Post("/chat", h.HandleChat)
}
