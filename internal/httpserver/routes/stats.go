package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/handlers"
)

func init() { Register(Group{Name: "stats", Mount: registerStats}) }

func registerStats(r chi.Router, d deps.Deps) {
	r.Get("/api/stats", handlers.Stats(d))
	r.Get("/api/genres", handlers.Genres(d))
}
