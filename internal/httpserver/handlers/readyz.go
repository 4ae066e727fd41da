package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Backend string `json:"backend,omitempty"`
}

// Readyz pings the configured store
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.PingTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Store == nil {
			writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Backend: d.Backend})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness ping failed", logger.String("backend", d.Backend), logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Backend: d.Backend})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Backend: d.Backend})
	}
}
