// internal/gateway/client.go

// Package gateway is the typed HTTP client for the hosted backend the
// app runs against: a GoTrue-style identity API under /auth/v1 and a
// PostgREST-style row API under /rest/v1. Every table read or write the
// app performs goes through this package; the app keeps no storage of
// its own.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to one backend project. It is safe for concurrent use;
// callers bound individual calls with context timeouts.
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client
	log     *zap.Logger
}

// New creates a Client for the given project URL and anon API key.
func New(baseURL, anonKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		// Transport-level backstop; per-call deadlines come from ctx.
		httpc: &http.Client{Timeout: 30 * time.Second},
		log:   logger,
	}
}

// BaseURL returns the project URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CloseIdleConnections releases pooled connections. Called at shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpc.CloseIdleConnections()
}

// do sends one JSON request. token is the caller's access token; when
// empty the anon key is used as the bearer, which is how unauthenticated
// identity calls (sign-in, sign-up, recover) are made.
func (c *Client) do(ctx context.Context, method, url, token string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.log.Debug("gateway call failed",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
	}
	return nil
}
