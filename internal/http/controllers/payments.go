package controllers

import (
	"errors"
	"net/http"

	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
	"github.com/Gabichuelo/estudio-dj-api/internal/metrics"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
	"github.com/Gabichuelo/estudio-dj-api/internal/payments"
)

type createPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	RedirectURL string  `json:"redirectUrl"`
}

type verifyPaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

// mollieKey lee la API key del proveedor desde el estado sincronizado.
func (c *Controllers) mollieKey(r *http.Request) (string, error) {
	rec, err := c.Store.Read(r.Context())
	if err != nil {
		return "", err
	}
	return rec.MollieAPIKey(), nil
}

// CreatePayment maneja POST /api/create-payment.
func (c *Controllers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPaymentRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		helpers.WriteError(w, http.StatusBadRequest, "amount debe ser mayor a cero")
		return
	}

	apiKey, err := c.mollieKey(r)
	if err != nil {
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	checkout, err := c.Payments.CreateCheckout(ctx, apiKey, req.Amount, req.Description, req.RedirectURL)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			helpers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.From(ctx).Error("create checkout failed", logger.Layer("controller"), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.PaymentsCreated.Inc()
	helpers.WriteJSON(w, http.StatusOK, checkout)
}

// VerifyPayment maneja POST /api/verify-payment. El estado se consulta al
// proveedor server-side: nunca se confía en un estado enviado por el cliente.
func (c *Controllers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyPaymentRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	if req.PaymentID == "" {
		helpers.WriteError(w, http.StatusBadRequest, "paymentId es obligatorio")
		return
	}

	apiKey, err := c.mollieKey(r)
	if err != nil {
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status, err := c.Payments.GetStatus(ctx, apiKey, req.PaymentID)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			helpers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.From(ctx).Error("verify payment failed",
			logger.Layer("controller"),
			logger.PaymentID(req.PaymentID),
			logger.Err(err),
		)
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.WriteJSON(w, http.StatusOK, status)
}
