// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// ConnectDB builds the gateway client and verifies the backend service
// answers. A dead backend at boot is a configuration problem, not
// something to discover request by request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client := gateway.New(appCfg.ServiceURL, appCfg.AnonKey, logger)

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		// Boot anyway; the health endpoint keeps reporting until the
		// backend comes up, and handlers degrade per request.
		logger.Warn("backend service unreachable at startup",
			zap.String("service_url", appCfg.ServiceURL), zap.Error(err))
	} else {
		logger.Info("connected to backend service", zap.String("service_url", appCfg.ServiceURL))
	}

	return DBDeps{Gateway: client}, nil
}

// EnsureSchema is a no-op: tables, constraints, and row-level security
// are owned by the backend service and managed with its own migrations.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return nil
}
