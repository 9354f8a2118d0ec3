// internal/shiprocket/client.go
package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"dkt-api-server/config"
	"dkt-api-server/internal/apperr"

	"golang.org/x/sync/singleflight"
)

// Client talks to the courier platform. Build one per process and share it:
// it owns the cached bearer token.
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
	group  singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(cfg config.ShiprocketConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
		email:      cfg.Email,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends an authenticated JSON request. A 401 drops the cached token and
// the call is retried once with a fresh one.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	status, body, err := c.authorizedRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		log.Printf("WARN: courier rejected cached token on %s, re-authenticating", path)
		c.Invalidate()
		status, body, err = c.authorizedRequest(ctx, method, path, in)
		if err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return apperr.Integration(status, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Wrap(apperr.KindIntegration, "unreadable courier response", err)
	}
	return nil
}

func (c *Client) authorizedRequest(ctx context.Context, method, path string, in any) (int, []byte, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return 0, nil, err
	}
	return c.send(ctx, method, path, token, in)
}

func (c *Client) send(ctx context.Context, method, path, token string, in any) (int, []byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode courier payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build courier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperr.Wrap(apperr.KindIntegration, "courier platform unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperr.Wrap(apperr.KindIntegration, "failed to read courier response", err)
	}
	return resp.StatusCode, body, nil
}
