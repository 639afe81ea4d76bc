package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the query API router
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games/{game_id}", h.HandleGetGame)
		r.Route("/sports/{sport}", func(r chi.Router) {
			r.Get("/upcoming", h.HandleUpcoming)
			r.Get("/next", h.HandleNextGame)
			r.Get("/scores", h.HandleScores)
		})
	})

	return r
}
