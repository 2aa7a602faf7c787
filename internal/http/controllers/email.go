package controllers

import (
	"errors"
	"net/http"

	"github.com/Gabichuelo/estudio-dj-api/internal/email"
	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
	"github.com/Gabichuelo/estudio-dj-api/internal/metrics"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
)

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Config  struct {
		SMTPHost     string `json:"smtpHost"`
		SMTPUser     string `json:"smtpUser"`
		SMTPPassword string `json:"smtpPassword"`
	} `json:"config"`
}

type sendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}

type sendEmailError struct {
	Success       bool   `json:"success"`
	Error         string `json:"error"`
	OriginalError string `json:"originalError,omitempty"`
}

// SendEmail maneja POST /api/send-email: un intento de entrega SMTP por
// request, con la falla clasificada en el body.
func (c *Controllers) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req sendEmailRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	receipt, err := c.Dispatcher.Send(ctx, email.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
	}, email.Credentials{
		Host:     req.Config.SMTPHost,
		User:     req.Config.SMTPUser,
		Password: req.Config.SMTPPassword,
	})
	if err != nil {
		var de *email.Error
		if !errors.As(err, &de) {
			de = email.Classify(err, receipt.Transport)
		}
		metrics.EmailsFailed.WithLabelValues(string(de.Category)).Inc()

		status := http.StatusInternalServerError
		if de.Category == email.CategoryMissingCredentials {
			// Precondición, no falla de entrega
			status = http.StatusBadRequest
		}
		helpers.WriteJSON(w, status, sendEmailError{
			Success:       false,
			Error:         de.Message,
			OriginalError: de.Original(),
		})
		return
	}

	metrics.EmailsSent.Inc()
	helpers.WriteJSON(w, http.StatusOK, sendEmailResponse{
		Success:   true,
		MessageID: receipt.MessageID,
	})
}

type notifyRequest struct {
	Cliente  string `json:"cliente"`
	Servicio string `json:"servicio"`
	Fecha    string `json:"fecha"`
}

type notifyResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Notify maneja POST /api/notify: notificación admin fire-and-forget vía
// Resend. Nunca le falla al caller: sin API key responde 200 con un skip
// distinguible, y un error del proveedor también se reporta como skip.
func (c *Controllers) Notify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req notifyRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	if !c.Notifier.Enabled() {
		helpers.WriteJSON(w, http.StatusOK, notifyResponse{
			Success: false,
			Message: "Skipped: notificador deshabilitado (sin RESEND_API_KEY)",
		})
		return
	}

	// El destinatario sale del estado sincronizado, con fallback configurado.
	to := c.AdminEmail
	if rec, err := c.Store.Read(ctx); err == nil && rec.AdminEmail() != "" {
		to = rec.AdminEmail()
	}

	id, err := c.Notifier.NotifyBooking(ctx, to, email.BookingNotice{
		Cliente:  req.Cliente,
		Servicio: req.Servicio,
		Fecha:    req.Fecha,
	})
	if err != nil {
		logger.From(ctx).Warn("notificación admin fallida", logger.Layer("controller"), logger.Err(err))
		helpers.WriteJSON(w, http.StatusOK, notifyResponse{
			Success: false,
			Message: "Skipped: la notificación no pudo enviarse",
		})
		return
	}

	helpers.WriteJSON(w, http.StatusOK, notifyResponse{Success: true, ID: id})
}
