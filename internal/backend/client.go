// Package backend talks to the wallet SDK gateway, a companion service that
// exposes the SDK hooks as JSON endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/sdk"
)

// StatusError is returned for non-2xx gateway responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client executes authenticated requests against the SDK gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	agentName  string
	agentToken string
}

var _ sdk.Client = (*Client)(nil)

// NewClient constructs a gateway client that authenticates using Basic Auth.
func NewClient(baseURL, agentName, agentToken string, timeout time.Duration) (*Client, error) {
	normalizedURL, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	if agentName == "" {
		return nil, errors.New("agent name is required")
	}

	if agentToken == "" {
		return nil, errors.New("agent token is required")
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: normalizedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		agentName:  agentName,
		agentToken: agentToken,
	}, nil
}

// WithHTTPClient overrides the default http.Client. Primarily useful for testing.
func (c *Client) WithHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		c.httpClient = httpClient
	}
}

func (c *Client) Heartbeat(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/agents/heartbeat", nil)
	if err != nil {
		return fmt.Errorf("create heartbeat request: %w", err)
	}

	return c.do(req, nil)
}

func (c *Client) Network(ctx context.Context) (*domain.Network, error) {
	var network domain.Network
	err := c.get(ctx, "/api/network", &network)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, sdk.ErrNetworkUnavailable
		}
		return nil, fmt.Errorf("get network: %w", err)
	}
	return &network, nil
}

func (c *Client) Wallet(ctx context.Context) (domain.WalletState, error) {
	var state domain.WalletState
	if err := c.get(ctx, "/api/wallet", &state); err != nil {
		return domain.WalletState{}, fmt.Errorf("get wallet: %w", err)
	}
	return state, nil
}

func (c *Client) CreateWallet(ctx context.Context) (domain.CreatedWallet, error) {
	var created domain.CreatedWallet
	if err := c.send(ctx, http.MethodPost, "/api/wallet", nil, &created); err != nil {
		return domain.CreatedWallet{}, fmt.Errorf("create wallet: %w", err)
	}
	return created, nil
}

func (c *Client) ExportMnemonic(ctx context.Context) (string, error) {
	var payload struct {
		Mnemonic string `json:"mnemonic"`
	}
	if err := c.get(ctx, "/api/wallet/mnemonic", &payload); err != nil {
		return "", fmt.Errorf("export mnemonic: %w", err)
	}
	return payload.Mnemonic, nil
}

func (c *Client) ExportPrivateKey(ctx context.Context) (string, error) {
	var payload struct {
		PrivateKey string `json:"private_key"`
	}
	if err := c.get(ctx, "/api/wallet/private-key", &payload); err != nil {
		return "", fmt.Errorf("export private key: %w", err)
	}
	return payload.PrivateKey, nil
}

func (c *Client) RefetchBalance(ctx context.Context) error {
	if err := c.send(ctx, http.MethodPost, "/api/balance/refetch", nil, nil); err != nil {
		return fmt.Errorf("refetch balance: %w", err)
	}
	return nil
}

func (c *Client) FormattedBalance(ctx context.Context) (string, error) {
	var payload struct {
		Formatted string `json:"formatted"`
	}
	if err := c.get(ctx, "/api/balance", &payload); err != nil {
		return "", fmt.Errorf("get balance: %w", err)
	}
	return payload.Formatted, nil
}

func (c *Client) SetFlashblocksEnabled(ctx context.Context, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	if err := c.send(ctx, http.MethodPut, "/api/flashblocks", body, nil); err != nil {
		return fmt.Errorf("set flashblocks: %w", err)
	}
	return nil
}

func (c *Client) FaucetURL(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/api/faucet", &payload); err != nil {
		return "", fmt.Errorf("get faucet url: %w", err)
	}
	return payload.URL, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("gateway base URL is required")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid gateway base URL: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid gateway base URL: %s", raw)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return strings.TrimSuffix(parsed.String(), "/"), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.agentName, c.agentToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			host := req.URL.Hostname()
			return fmt.Errorf("execute request: network error contacting %s: %w", host, err)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("execute request: %w", urlErr.Err)
		}
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
