// Package banklink es el glue con el SaaS de bank-linking usado en el
// onboarding: link token para el widget y exchange del public token.
// El access token NO se persiste; sólo guardamos la referencia enmascarada.
package banklink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL  string
	ClientID string
	Secret   string
	HTTP     *http.Client
}

func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		BaseURL:  baseURL,
		ClientID: clientID,
		Secret:   secret,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

// LinkToken abre el widget de linking en el frontend.
type LinkToken struct {
	Token     string    `json:"link_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *Client) CreateLinkToken(ctx context.Context, businessID string) (*LinkToken, error) {
	var out LinkToken
	err := c.post(ctx, "/link/token/create", map[string]string{
		"client_user_id": businessID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExchangeResult es el resultado del exchange: la referencia enmascarada
// de la cuenta es lo único que persiste este servicio.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	AccountMask string `json:"account_mask"` // ej: "****4821"
	Institution string `json:"institution"`
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	var out ExchangeResult
	err := c.post(ctx, "/item/public_token/exchange", map[string]string{
		"public_token": publicToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload := map[string]any{"client_id": c.ClientID, "secret": c.Secret}
	if err := mergeInto(payload, in); err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("banklink: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("banklink: %s: status %d: %s", path, resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mergeInto(dst map[string]any, in any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range m {
		dst[k] = v
	}
	return nil
}
