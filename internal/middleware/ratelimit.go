package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

// RateLimit limits each client IP to limit requests per window. A
// non-positive limit disables the limiter. The key is r.RemoteAddr, so
// forwarding headers only count when a proxy-aware middleware such as
// chi's RealIP has already rewritten it.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
		}),
	)
}
