// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging, and request limits. AppConfig is where everything
// specific to LinguaLearn lives: the backend service endpoint, session
// cookies, and which social providers are switched on.
type AppConfig struct {
	// Backend service configuration. One base URL serves both the
	// identity API (/auth/v1) and the row API (/rest/v1); the anon key
	// identifies this app to it.
	ServiceURL string // e.g., "https://abc123.supabase.co"
	AnonKey    string // publishable API key for the backend service

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: lingualearn-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL of this app, used for OAuth callbacks and password-reset
	// links (e.g., "https://lingualearn.app" or "http://localhost:3000").
	BaseURL string

	// Social sign-in switches. A provider also has to be configured on
	// the identity service for the flow to complete.
	GoogleOAuth bool
	GitHubOAuth bool
}
