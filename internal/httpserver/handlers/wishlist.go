package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/workingset"
)

type addWishRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Author      string `json:"author" validate:"max=200"`
	Genre       string `json:"genre" validate:"max=100"`
	Nationality string `json:"nationality" validate:"max=100"`
}

type promoteRequest struct {
	AcquiredVia string `json:"acquiredVia" validate:"required"`
}

// ListWishlist returns the open wishlist entries
func ListWishlist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := d.Shelf.Snapshot(r.Context())
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, ds.Wishlist, map[string]int{"count": len(ds.Wishlist)})
	}
}

// AddWish creates a wishlist entry
func AddWish(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addWishRequest
		if !decodeBody(w, r, &req) {
			return
		}

		entry, err := d.Shelf.AddToWishlist(r.Context(), workingset.NewEntry{
			Title:       req.Title,
			Author:      req.Author,
			Genre:       req.Genre,
			Nationality: req.Nationality,
		})
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusCreated, entry, nil)
	}
}

// PromoteWish moves a wishlist entry into the acquired collection.
// The "-" channel is rejected with 422.
func PromoteWish(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promoteRequest
		if !decodeBody(w, r, &req) {
			return
		}

		book, err := d.Shelf.Promote(r.Context(), chi.URLParam(r, "id"), domain.AcquiredVia(req.AcquiredVia))
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, book, nil)
	}
}

// RemoveWish deletes a wishlist entry
func RemoveWish(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Shelf.RemoveWish(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
