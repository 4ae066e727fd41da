package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/handlers"
)

func init() {
	Register(Group{
		Name:  "wishlist",
		Mount: registerWishlist,
		Use:   []Guard{Static(middleware.RequestSize(maxBodyBytes))},
	})
}

func registerWishlist(r chi.Router, d deps.Deps) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Get("/", handlers.ListWishlist(d))
		r.With(middleware.AllowContentType("application/json")).Post("/", handlers.AddWish(d))
		r.With(middleware.AllowContentType("application/json")).Post("/{id}/promote", handlers.PromoteWish(d))
		r.Delete("/{id}", handlers.RemoveWish(d))
	})
}
