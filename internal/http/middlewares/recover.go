package middlewares

import (
	"net/http"

	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
)

// WithRecover atrapa panics del handler y responde 500 en vez de tirar la conexión.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						logger.Any("panic", rec),
					)
					helpers.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
