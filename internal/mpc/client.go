// Package mpc wraps the custodial MPC wallet provider's HTTP API. Provider
// semantics are opaque here; this client only shuttles JSON and normalizes
// failures so raw provider payloads never reach API clients.
package mpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrProvider covers every provider-side failure. The underlying response
// is kept for logs only.
var ErrProvider = errors.New("wallet provider error")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Wallet is the provider's view of a provisioned wallet.
type Wallet struct {
	ID      string `json:"id"`
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

// Balance is one asset balance on a provider wallet, in minor units.
type Balance struct {
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
}

// CreateWallet provisions a new MPC wallet on the given chain.
func (c *Client) CreateWallet(ctx context.Context, chain string) (*Wallet, error) {
	var out Wallet
	if err := c.do(ctx, http.MethodPost, "/v1/wallets", map[string]string{"chain": chain}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBalances fetches current balances for a provider wallet.
func (c *Client) GetBalances(ctx context.Context, providerID string) ([]Balance, error) {
	var out struct {
		Balances []Balance `json:"balances"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/wallets/"+providerID+"/balances", nil, &out); err != nil {
		return nil, err
	}
	return out.Balances, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c == nil {
		return fmt.Errorf("%w: not configured", ErrProvider)
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode: %v", ErrProvider, err)
		}
	}
	return nil
}
