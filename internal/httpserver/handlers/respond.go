package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details []ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonSuccess(w http.ResponseWriter, status int, data, meta interface{}) {
	writeJSON(w, status, successResponse{Success: true, Data: data, Meta: meta})
}

func jsonError(w http.ResponseWriter, status int, code, message string, details []ValidationError) {
	writeJSON(w, status, errorResponse{
		Error: errorBody{Code: code, Message: message, Details: details},
	})
}

// writeError maps the domain error taxonomy onto HTTP statuses
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		jsonError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrConnectivity):
		d.Logger.Error("store unreachable", logger.Error(err))
		jsonError(w, http.StatusServiceUnavailable, "store_unreachable", "the store could not be reached", nil)
	case errors.Is(err, domain.ErrPartialWrite):
		d.Logger.Error("partial write", logger.Error(err))
		jsonError(w, http.StatusInternalServerError, "partial_write", "the store was only partially written", nil)
	default:
		d.Logger.Error("unexpected error", logger.Error(err))
		jsonError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

// decodeBody reads a JSON body into dst and validates it.
// It writes the error response itself and reports whether to continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error(), nil)
		return false
	}
	if details := ValidateStruct(dst); len(details) > 0 {
		jsonError(w, http.StatusUnprocessableEntity, "validation_error", "request validation failed", details)
		return false
	}
	return true
}
