package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers 200 when the database responds within two seconds and 503
// otherwise.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
