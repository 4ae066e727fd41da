package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
)

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Shelf.Stats(r.Context())
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, st, nil)
	}
}

func Genres(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonSuccess(w, http.StatusOK, d.Catalog, nil)
	}
}
