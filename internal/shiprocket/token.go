// internal/shiprocket/token.go
package shiprocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"dkt-api-server/internal/apperr"
)

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Token returns the cached bearer token while it is valid, otherwise it
// exchanges credentials. Concurrent callers share one exchange, which runs
// detached from any single caller's cancellation.
func (c *Client) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	ch := c.group.DoChan("token", func() (interface{}, error) {
		if token, ok := c.cached(); ok {
			return token, nil
		}

		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loginTimeout())
		defer cancel()

		log.Println("Fetching a new courier token")
		token, ttl, err := c.login(loginCtx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.token = ""
			c.expiry = time.Time{}
			return "", err
		}
		c.token = token
		c.expiry = c.now().Add(ttl)
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", apperr.Wrap(apperr.KindIntegration, "courier request cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) loginTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return 20 * time.Second
}

// Invalidate drops the cached token.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiry = time.Time{}
}

func (c *Client) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, true
	}
	return "", false
}

func (c *Client) login(ctx context.Context) (string, time.Duration, error) {
	status, body, err := c.send(ctx, http.MethodPost, "auth/login", "", map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return "", 0, apperr.Wrap(apperr.KindAuthentication, "courier authentication failed", err)
	}
	if status != http.StatusOK {
		return "", 0, apperr.Wrap(apperr.KindAuthentication, "courier authentication failed",
			fmt.Errorf("auth/login returned %d: %s", status, body))
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", 0, apperr.Wrap(apperr.KindAuthentication, "courier authentication failed", err)
	}
	if lr.Token == "" {
		return "", 0, apperr.Wrap(apperr.KindAuthentication, "courier authentication failed",
			errors.New("auth/login returned an empty token"))
	}
	return lr.Token, time.Duration(lr.ExpiresIn) * time.Second, nil
}
