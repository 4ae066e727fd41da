package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/handlers"
)

const maxBodyBytes = 64 << 10

func init() {
	Register(Group{
		Name:  "books",
		Mount: registerBooks,
		Use:   []Guard{Static(middleware.RequestSize(maxBodyBytes))},
	})
}

func registerBooks(r chi.Router, d deps.Deps) {
	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", handlers.Overview(d))
		r.Get("/details", handlers.Details(d))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/{id}/reads", handlers.RecordRead(d))
			r.Post("/{id}/notes", handlers.AppendNote(d))
		})
	})
}
