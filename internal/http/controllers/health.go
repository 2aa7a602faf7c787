package controllers

import (
	"net/http"

	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
)

// Root maneja GET /: texto de liveness para los pings del hosting.
func (c *Controllers) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API ONLINE 🚀 - Estudio DJ Backend"))
}

// Healthz maneja GET /healthz: liveness + conectividad del store.
func (c *Controllers) Healthz(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	status := http.StatusOK
	if err := c.Store.Ping(r.Context()); err != nil {
		storeStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, map[string]string{
		"status": "ok",
		"store":  storeStatus,
	})
}
