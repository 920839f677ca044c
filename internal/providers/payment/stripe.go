// Package payment contains the client for the Stripe payment-intent API.
// The service only needs the minor-unit amount contract and the returned
// client secret; everything else about the gateway stays on Stripe's side.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrMissingSecretKey indicates that the client was configured without credentials.
var ErrMissingSecretKey = errors.New("stripe: secret key is required")

const defaultBaseURL = "https://api.stripe.com"

// Options configures the Stripe client.
type Options struct {
	SecretKey      string
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the Stripe payment-intents endpoint.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Stripe client from options.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, ErrMissingSecretKey
	}
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{secretKey: opts.SecretKey, baseURL: baseURL, httpClient: httpClient}, nil
}

type intentResponse struct {
	ClientSecret string `json:"client_secret"`
	Error        struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent opens a payment intent for the given minor-unit amount and
// returns the client-side confirmation secret.
func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	if amountMinorUnits <= 0 {
		return "", fmt.Errorf("stripe: amount must be positive, got %d", amountMinorUnits)
	}
	if currency == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("stripe: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe: create payment intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("stripe: read response: %w", err)
	}

	var parsed intentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("stripe: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("stripe: payment intent failed: %s", msg)
	}
	if parsed.ClientSecret == "" {
		return "", fmt.Errorf("stripe: response missing client secret")
	}
	return parsed.ClientSecret, nil
}

// MinorUnits converts a major-unit amount to minor units, truncating toward
// zero exactly as the upstream clients expect (amount * 100, parseInt).
func MinorUnits(amount float64) int64 {
	return int64(amount * 100)
}
