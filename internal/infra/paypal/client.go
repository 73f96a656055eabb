// Package paypal implementa o subconjunto da API REST do PayPal usado pelo
// sistema: token OAuth2, criação e captura de pedidos.
package paypal

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

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	StatusCompleted = "COMPLETED"

	SandboxURL = "https://api-m.sandbox.paypal.com"
	LiveURL    = "https://api-m.paypal.com"

	tokenCacheKey = "access_token"
	// margem para não usar um token prestes a expirar
	tokenSkew = 60 * time.Second
)

var (
	ErrNotConfigured = errors.New("paypal not configured")
	ErrProvider      = errors.New("paypal request failed")
)

type Config struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	tokens *cache.Cache
}

// Order é a resposta resumida de criação de pedido.
type Order struct {
	ID         string
	Status     string
	ApproveURL string
}

// Capture é o resultado da captura; Status igual a StatusCompleted indica
// pagamento efetivado.
type Capture struct {
	OrderID   string
	Status    string
	CaptureID string
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: cache.New(time.Hour, 10*time.Minute),
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.cfg.ClientID != "" && c.cfg.Secret != ""
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if v, ok := c.tokens.Get(tokenCacheKey); ok {
		return v.(string), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", fmt.Errorf("%w: resposta sem access_token", ErrProvider)
	}
	ttl := time.Duration(gjson.GetBytes(body, "expires_in").Int()) * time.Second
	if ttl > tokenSkew {
		c.tokens.Set(tokenCacheKey, token, ttl-tokenSkew)
	}
	return token, nil
}

// CreateOrder cria um pedido CAPTURE com um único purchase_unit.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, description, referenceID string) (Order, error) {
	if !c.Configured() {
		return Order{}, ErrNotConfigured
	}
	if !amount.IsPositive() {
		return Order{}, fmt.Errorf("%w: valor deve ser positivo", ErrProvider)
	}
	if currency == "" {
		currency = "USD"
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": referenceID,
			"description":  truncate(description, 127),
			"amount": map[string]string{
				"currency_code": strings.ToUpper(currency),
				"value":         amount.StringFixed(2),
			},
		}},
	}

	body, err := c.authorized(ctx, http.MethodPost, "/v2/checkout/orders", payload)
	if err != nil {
		return Order{}, err
	}

	order := Order{
		ID:         gjson.GetBytes(body, "id").String(),
		Status:     gjson.GetBytes(body, "status").String(),
		ApproveURL: gjson.GetBytes(body, `links.#(rel=="approve").href`).String(),
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("%w: resposta sem id do pedido", ErrProvider)
	}
	return order, nil
}

// CaptureOrder captura um pedido aprovado pelo comprador.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (Capture, error) {
	if !c.Configured() {
		return Capture{}, ErrNotConfigured
	}
	if orderID == "" {
		return Capture{}, fmt.Errorf("%w: id do pedido vazio", ErrProvider)
	}

	body, err := c.authorized(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return Capture{}, err
	}

	return Capture{
		OrderID:   gjson.GetBytes(body, "id").String(),
		Status:    gjson.GetBytes(body, "status").String(),
		CaptureID: gjson.GetBytes(body, "purchase_units.0.payments.captures.0.id").String(),
	}, nil
}

func (c *Client) authorized(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil && errors.Is(err, errUnauthorized) {
		c.tokens.Delete(tokenCacheKey)
	}
	return body, err
}

var errUnauthorized = errors.New("unauthorized")

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %w", ErrProvider, errUnauthorized)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "error_description").String()
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, msg)
	}
	return body, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
