// internal/gateway/health.go
package gateway

import (
	"context"
	"net/http"
)

// Ping checks that the backend is reachable via the identity service's
// health endpoint. Used by the app's own health check.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", "", nil, nil, nil)
}
