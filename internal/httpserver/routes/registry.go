package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

type (
	Middleware = func(http.Handler) http.Handler

	// Guard builds a middleware once the dependencies are known.
	Guard func(d deps.Deps) Middleware
)

// Group is one family of endpoints mounted with its own middlewares.
type Group struct {
	Name  string
	Mount func(r chi.Router, d deps.Deps)
	Use   []Guard
}

var groups []Group

// Register adds a group from an init func. Names must be unique.
func Register(g Group) {
	if g.Mount == nil {
		panic(fmt.Sprintf("routes: group %q has no Mount func", g.Name))
	}
	for _, existing := range groups {
		if existing.Name == g.Name {
			panic(fmt.Sprintf("routes: group %q registered twice", g.Name))
		}
	}
	groups = append(groups, g)
}

// RegisterAll mounts every group; called once by the router.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		r.Group(func(r chi.Router) {
			for _, guard := range g.Use {
				r.Use(guard(d))
			}
			g.Mount(r, d)
		})
		names = append(names, g.Name)
	}
	if d.Logger != nil {
		d.Logger.Debug("routes mounted", logger.Strings("groups", names))
	}
}

// Static wraps a middleware that needs no dependencies
func Static(m Middleware) Guard {
	return func(deps.Deps) Middleware { return m }
}
