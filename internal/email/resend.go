package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
)

const defaultResendBaseURL = "https://api.resend.com"

// ErrNotifierDisabled indica que la capability de notificación está apagada
// (sin API key). Es un resultado distinguible, no una falla del caller.
var ErrNotifierDisabled = errors.New("email: notifier disabled (no API key)")

// BookingNotice son los datos de la reserva que se notifican al admin.
type BookingNotice struct {
	Cliente  string
	Servicio string
	Fecha    string
}

// Notifier envía notificaciones fire-and-forget vía la API HTTP de Resend.
// Sin API key el notifier queda explícitamente deshabilitado: Notify devuelve
// ErrNotifierDisabled en lugar de fallarle al caller.
type Notifier struct {
	apiKey  string
	from    string
	baseURL string
	httpc   *http.Client
}

// NewNotifier crea un Notifier. apiKey vacía = deshabilitado.
func NewNotifier(apiKey, from string) *Notifier {
	if from == "" {
		from = "Estudio DJ <onboarding@resend.dev>"
	}
	return &Notifier{
		apiKey:  strings.TrimSpace(apiKey),
		from:    from,
		baseURL: defaultResendBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reporta si hay API key configurada.
func (n *Notifier) Enabled() bool { return n.apiKey != "" }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// NotifyBooking envía la notificación de reserva a la casilla admin.
// Devuelve el id de mensaje asignado por el proveedor.
func (n *Notifier) NotifyBooking(ctx context.Context, to string, notice BookingNotice) (string, error) {
	if !n.Enabled() {
		return "", ErrNotifierDisabled
	}
	if to == "" {
		return "", fmt.Errorf("email: notify: destinatario admin vacío")
	}

	subject := fmt.Sprintf("Nueva reserva: %s", notice.Servicio)
	html := fmt.Sprintf(
		"<h2>Nueva reserva</h2><p><b>Cliente:</b> %s</p><p><b>Servicio:</b> %s</p><p><b>Fecha:</b> %s</p>",
		notice.Cliente, notice.Servicio, notice.Fecha,
	)

	body, err := json.Marshal(resendRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("email: notify: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode/100 != 2 {
		logger.From(ctx).Warn("resend rechazó la notificación",
			logger.Component("email.Notifier"),
			logger.Status(resp.StatusCode),
		)
		return "", fmt.Errorf("email: notify: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out resendResponse
	_ = json.Unmarshal(raw, &out)
	return out.ID, nil
}
