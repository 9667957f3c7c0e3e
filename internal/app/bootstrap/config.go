// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LinguaLearn.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: service_url, session_name, etc.
//   - Environment variables: LINGUALEARN_SERVICE_URL, LINGUALEARN_SESSION_NAME, etc.
//   - Command-line flags: --service_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "service_url", Default: "http://localhost:54321", Desc: "Base URL of the auth/data backend service"},
	{Name: "anon_key", Default: "", Desc: "Publishable API key for the backend service"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "lingualearn-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL of this app, for OAuth callbacks and reset links"},

	{Name: "google_oauth", Default: true, Desc: "Enable Google social sign-in"},
	{Name: "github_oauth", Default: true, Desc: "Enable GitHub social sign-in"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LINGUALEARN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LINGUALEARN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		ServiceURL: appValues.String("service_url"),
		AnonKey:    appValues.String("anon_key"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		BaseURL: appValues.String("base_url"),

		GoogleOAuth: appValues.Bool("google_oauth"),
		GitHubOAuth: appValues.Bool("github_oauth"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Catching a malformed service URL or a missing key here beats finding
// out on the first sign-in attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.ServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid service URL", zap.String("service_url", appCfg.ServiceURL))
		return fmt.Errorf("invalid service_url %q: must be an absolute http(s) URL", appCfg.ServiceURL)
	}

	if appCfg.AnonKey == "" {
		return fmt.Errorf("anon_key is required: set LINGUALEARN_ANON_KEY")
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key still holds the dev default; set LINGUALEARN_SESSION_KEY")
	}

	return nil
}
