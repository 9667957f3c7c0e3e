// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/resources"
)

// Startup runs one-time application initialization after backend
// connections are ready, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or
// perform any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	return nil
}
