package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/mw"
)

// readyz exposes store connectivity, so it is limited to BOOKSHELF_ALLOWED_CIDRS
func init() {
	Register(Group{
		Name:  "readyz",
		Mount: func(r chi.Router, d deps.Deps) { r.Get("/readyz", handlers.Readyz(d)) },
		Use:   []Guard{restrictToAllowedCIDRs},
	})
}

func restrictToAllowedCIDRs(d deps.Deps) Middleware {
	return mw.RestrictTo(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}
