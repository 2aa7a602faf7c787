// Package router arma el router chi con los middlewares y rutas del API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ctrl "github.com/Gabichuelo/estudio-dj-api/internal/http/controllers"
	mw "github.com/Gabichuelo/estudio-dj-api/internal/http/middlewares"
	"github.com/Gabichuelo/estudio-dj-api/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Controllers *ctrl.Controllers

	CORSAllowedOrigins []string

	// SendEmailLimiter limita POST /api/send-email por IP. Opcional.
	SendEmailLimiter rate.Limiter
}

// New construye el handler raíz. Orden de middlewares: recover primero
// (más externo), CORS antes del routing para que el preflight OPTIONS
// responda aunque la ruta solo registre POST.
func New(deps Deps) http.Handler {
	c := deps.Controllers

	r := chi.NewRouter()
	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithCORS(deps.CORSAllowedOrigins))
	r.Use(mw.WithLogging())

	r.Get("/", c.Root)
	r.Get("/healthz", c.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/sync", c.GetSync)
		api.Post("/sync", c.PostSync)

		api.With(mw.WithRateLimit(deps.SendEmailLimiter)).Post("/send-email", c.SendEmail)
		api.Post("/notify", c.Notify)

		api.Post("/create-payment", c.CreatePayment)
		api.Post("/verify-payment", c.VerifyPayment)
	})

	return r
}
