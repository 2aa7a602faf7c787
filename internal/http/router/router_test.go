package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gabichuelo/estudio-dj-api/internal/email"
	ctrl "github.com/Gabichuelo/estudio-dj-api/internal/http/controllers"
	"github.com/Gabichuelo/estudio-dj-api/internal/payments"
	"github.com/Gabichuelo/estudio-dj-api/internal/rate"
	memstore "github.com/Gabichuelo/estudio-dj-api/internal/store/memory"
)

func newTestServer(t *testing.T, limiter rate.Limiter) (*httptest.Server, *memstore.Store) {
	t.Helper()
	repo := memstore.New()
	controllers := ctrl.New(repo, email.NewDispatcher(), email.NewNotifier("", ""), payments.NewClient(), "")
	h := New(Deps{
		Controllers:        controllers,
		CORSAllowedOrigins: []string{"*"},
		SendEmailLimiter:   limiter,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, repo
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestRoot_Liveness(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestGetSync_EmptyStoreReturnsDefaultShape(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/sync")
	require.NoError(t, err)
	body := decodeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []any{}, body["packs"])
	require.Equal(t, []any{}, body["bookings"])
	require.Equal(t, map[string]any{}, body["homeContent"])
}

func TestSync_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/sync", `{
		"packs": [{"name": "Pack Básico"}],
		"bookings": [{"cliente": "Lucía"}, {"cliente": "Marcos"}],
		"homeContent": {"adminEmail": "admin@estudio.com"}
	}`)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	resp2, err := http.Get(srv.URL + "/api/sync")
	require.NoError(t, err)
	got := decodeBody(t, resp2)
	require.Len(t, got["packs"], 1)
	require.Len(t, got["bookings"], 2)
	require.Equal(t, "admin@estudio.com", got["homeContent"].(map[string]any)["adminEmail"])
}

func TestSync_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/sync", `{no es json`)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["error"])
}

func TestSendEmail_MissingCredentials(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/send-email", `{
		"to": "x@y.z", "subject": "hola", "html": "<p>hola</p>",
		"config": {"smtpHost": "smtp.gmail.com", "smtpUser": "a@gmail.com", "smtpPassword": ""}
	}`)
	body := decodeBody(t, resp)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "credenciales")
}

func TestNotify_DisabledReturnsSkip(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/notify", `{"cliente":"Lucía","servicio":"Grabación","fecha":"2026-09-01"}`)
	body := decodeBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode, "un notifier deshabilitado no le falla al caller")
	require.Equal(t, false, body["success"])
	require.True(t, strings.HasPrefix(body["message"].(string), "Skipped"))
}

func TestCreatePayment_ProviderNotConfigured(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/create-payment", `{"amount": 19.99, "description": "Pack", "redirectUrl": "https://x"}`)
	body := decodeBody(t, resp)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "mollieApiKey")
}

func TestVerifyPayment_RequiresPaymentID(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/verify-payment", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/sync", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://estudio.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://estudio.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSendEmail_RateLimited(t *testing.T) {
	limiter := rate.NewMemoryLimiter("test:", 1, time.Hour)
	srv, _ := newTestServer(t, limiter)

	body := `{"to":"x@y.z","subject":"s","html":"h","config":{}}`
	resp := postJSON(t, srv.URL+"/api/send-email", body)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "primer request pasa el limiter (falla por credenciales)")

	resp2 := postJSON(t, srv.URL+"/api/send-email", body)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp2.StatusCode)
	require.NotEmpty(t, resp2.Header.Get("Retry-After"))
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/sync", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "rid-123", resp.Header.Get("X-Request-ID"))
}
