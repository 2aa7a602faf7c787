// Package payments es el puente hacia Mollie: creación de checkouts hosteados
// y verificación server-side del estado de un pago. Passthrough síncrono,
// sin caching ni reconciliación local.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
)

const defaultBaseURL = "https://api.mollie.com"

// Currency fija para todos los checkouts.
const Currency = "EUR"

// ErrNotConfigured indica que no hay API key de Mollie en el estado
// (homeContent.payments.mollieApiKey).
var ErrNotConfigured = errors.New("payments: proveedor no configurado (falta mollieApiKey)")

// Estados que devuelve Mollie. Se pasan al caller sin traducir.
const (
	StatusOpen     = "open"
	StatusPaid     = "paid"
	StatusPending  = "pending"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
	StatusFailed   = "failed"
)

// Checkout es la vista transitoria de una sesión de pago recién creada.
type Checkout struct {
	PaymentID   string `json:"paymentId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// Status es el resultado de una verificación server-side.
// PaidAt solo viene seteado cuando el proveedor reporta "paid";
// nunca se sintetiza localmente.
type Status struct {
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paidAt,omitempty"`
}

// Client habla con la API REST de Mollie. La API key llega por llamada porque
// vive en el estado sincronizado, no en la configuración del proceso.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NormalizeAmount redondea a 2 decimales y formatea como exige Mollie
// (string decimal con exactamente dos cifras, ej. "20.00").
func NormalizeAmount(amount float64) string {
	return strconv.FormatFloat(math.Round(amount*100)/100, 'f', 2, 64)
}

type molliePayment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	PaidAt string `json:"paidAt"`
	Links  struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

type mollieError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// CreateCheckout crea una sesión de pago hosteada y devuelve la URL de
// checkout junto con el id del pago. apiKey vacía ⇒ ErrNotConfigured.
func (c *Client) CreateCheckout(ctx context.Context, apiKey string, amount float64, description, redirectURL string) (Checkout, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Checkout{}, ErrNotConfigured
	}

	payload := map[string]any{
		"amount": map[string]string{
			"currency": Currency,
			"value":    NormalizeAmount(amount),
		},
		"description": description,
		"redirectUrl": redirectURL,
	}

	var pay molliePayment
	// Idempotency-Key por llamada: un retry de red del lado de Mollie no
	// duplica el pago, pero no cambia la semántica at-most-once del caller.
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := c.do(ctx, http.MethodPost, "/v2/payments", apiKey, payload, headers, &pay); err != nil {
		return Checkout{}, err
	}

	logger.From(ctx).Info("checkout creado",
		logger.Component("payments.Client"),
		logger.PaymentID(pay.ID),
	)
	return Checkout{PaymentID: pay.ID, CheckoutURL: pay.Links.Checkout.Href}, nil
}

// GetStatus consulta el estado de un pago directamente al proveedor.
// Existe para que el estado se verifique server-side y no se confíe en un
// valor provisto por el cliente.
func (c *Client) GetStatus(ctx context.Context, apiKey, paymentID string) (Status, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Status{}, ErrNotConfigured
	}
	if strings.TrimSpace(paymentID) == "" {
		return Status{}, fmt.Errorf("payments: paymentId vacío")
	}

	var pay molliePayment
	if err := c.do(ctx, http.MethodGet, "/v2/payments/"+paymentID, apiKey, nil, nil, &pay); err != nil {
		return Status{}, err
	}

	st := Status{Status: pay.Status}
	if pay.Status == StatusPaid && pay.PaidAt != "" {
		if ts, err := time.Parse(time.RFC3339, pay.PaidAt); err == nil {
			st.PaidAt = &ts
		}
	}
	return st, nil
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, payload any, headers map[string]string, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(raw))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("payments: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode/100 != 2 {
		var me mollieError
		if json.Unmarshal(raw, &me) == nil && me.Detail != "" {
			return fmt.Errorf("payments: mollie %d %s: %s", me.Status, me.Title, me.Detail)
		}
		return fmt.Errorf("payments: mollie status=%d body=%s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("payments: decode: %w", err)
		}
	}
	return nil
}
