package middlewares

import (
	"net/http"
	"strconv"

	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
	"github.com/Gabichuelo/estudio-dj-api/internal/rate"
)

// WithRateLimit limita requests por IP usando el limiter dado.
// Si limiter es nil el middleware es un passthrough.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				// El limiter nunca debería fallar en memoria; ante la duda, dejamos pasar.
				logger.From(r.Context()).Warn("rate limiter error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				}
				helpers.WriteError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
