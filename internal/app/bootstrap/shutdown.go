// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown tears down outbound connections. In-flight requests have
// already drained by the time WAFFLE calls this.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Gateway != nil {
		logger.Info("closing backend service connections")
		deps.Gateway.CloseIdleConnections()
	}
	return nil
}
