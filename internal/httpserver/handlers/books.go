package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/query"
)

type readDateRequest struct {
	// Date defaults to today when empty
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type readDateResponse struct {
	Outcome string `json:"outcome"`
	Date    string `json:"date"`
}

type noteRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// Overview filters the acquired books.
// Query parameters: q, author, genre, from, to, where.
// where takes infix string operators: where=Author contains 'King'.
func Overview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		o, err := d.Shelf.Overview(r.Context(), query.Criteria{
			Search: q.Get("q"),
			Author: q.Get("author"),
			Genre:  q.Get("genre"),
			From:   q.Get("from"),
			To:     q.Get("to"),
			Where:  q.Get("where"),
		})
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, o, nil)
	}
}

// Details returns the books of one author/title selection
func Details(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		details, err := d.Shelf.Details(r.Context(), query.DetailsCriteria{
			Author: q.Get("author"),
			Title:  q.Get("title"),
		})
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, details, nil)
	}
}

// RecordRead adds a read date. A date already present answers 200
// with outcome "already_recorded".
func RecordRead(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req readDateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Date == "" {
			req.Date = domain.FormatDate(now())
		}

		outcome, err := d.Shelf.RecordReadDate(r.Context(), chi.URLParam(r, "id"), req.Date)
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusOK, readDateResponse{Outcome: string(outcome), Date: req.Date}, nil)
	}
}

// AppendNote adds a timestamped note
func AppendNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteRequest
		if !decodeBody(w, r, &req) {
			return
		}

		note, err := d.Shelf.AppendNote(r.Context(), chi.URLParam(r, "id"), req.Text)
		if err != nil {
			writeError(w, d, err)
			return
		}
		jsonSuccess(w, http.StatusCreated, note, nil)
	}
}
