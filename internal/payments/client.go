// Package payments es el glue con el procesador de pagos hosted:
// creación de checkout sessions y verificación de firma de webhooks.
// El procesador es dueño del estado real; acá sólo reflejamos
// payment_status sobre el booking.
package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckoutSession es la sesión creada en el procesador.
type CheckoutSession struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

type checkoutRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	AccountID   string            `json:"account_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreateCheckout crea una checkout session por el total del booking.
// accountID es la cuenta conectada del business (puede ser vacío en dev).
func (c *Client) CreateCheckout(ctx context.Context, amountCents int64, currency, accountID, bookingID string) (*CheckoutSession, error) {
	body := checkoutRequest{
		AmountCents: amountCents,
		Currency:    currency,
		AccountID:   accountID,
		Metadata:    map[string]string{"booking_id": bookingID},
	}
	var out CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectedAccount es la cuenta del business en el procesador.
type ConnectedAccount struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateAccount crea la cuenta conectada (onboarding fase 2).
func (c *Client) CreateAccount(ctx context.Context, businessName, email string) (*ConnectedAccount, error) {
	body := map[string]string{"name": businessName, "email": email}
	var out ConnectedAccount
	if err := c.post(ctx, "/v1/accounts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("payments: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("payments: %s: status %d: %s", path, resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ─── Webhooks ───

// WebhookEvent es el evento que manda el procesador.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"` // payment.succeeded | payment.refunded | ...
	Data struct {
		BookingID string `json:"booking_id"`
		SessionID string `json:"session_id"`
	} `json:"data"`
}

// VerifySignature valida el header X-Payments-Signature (hmac-sha256 hex
// del body crudo) en tiempo constante.
func VerifySignature(secret string, payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}

// ParseEvent decodifica el payload del webhook.
func ParseEvent(payload []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("payments: malformed event")
	}
	return &ev, nil
}
