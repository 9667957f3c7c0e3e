// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	classesfeature "github.com/lingualearn/lingualearn/internal/app/features/classes"
	coursesfeature "github.com/lingualearn/lingualearn/internal/app/features/courses"
	dashboardfeature "github.com/lingualearn/lingualearn/internal/app/features/dashboard"
	errorsfeature "github.com/lingualearn/lingualearn/internal/app/features/errors"
	healthfeature "github.com/lingualearn/lingualearn/internal/app/features/health"
	homefeature "github.com/lingualearn/lingualearn/internal/app/features/home"
	loginfeature "github.com/lingualearn/lingualearn/internal/app/features/login"
	logoutfeature "github.com/lingualearn/lingualearn/internal/app/features/logout"
	messagesfeature "github.com/lingualearn/lingualearn/internal/app/features/messages"
	oauthfeature "github.com/lingualearn/lingualearn/internal/app/features/oauth"
	progressfeature "github.com/lingualearn/lingualearn/internal/app/features/progress"
	settingsfeature "github.com/lingualearn/lingualearn/internal/app/features/settings"
	teachersfeature "github.com/lingualearn/lingualearn/internal/app/features/teachers"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend connections, and any
// Startup hooks have completed. It creates the session manager, boots the
// template engine, applies session and CSRF middleware, and mounts the
// feature routers: home, login, OAuth, dashboard, courses, classes,
// teachers, progress, messages, and settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser revalidates the access
	// token on each request. A revoked or expired token signs the
	// request out immediately instead of at the next cookie expiry.
	sessionMgr.SetUserFetcher(func(ctx context.Context, accessToken string) (*auth.SessionUser, error) {
		u, err := deps.Gateway.GetUser(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		return &auth.SessionUser{
			ID:    u.ID,
			Name:  u.FullName,
			Email: u.Email,
		}, nil
	})

	// When the access token has expired, trade the refresh token for a
	// new pair so long-lived sessions survive the one-hour token TTL.
	sessionMgr.SetSessionRefresher(func(ctx context.Context, refreshToken string) (*auth.SessionUser, error) {
		s, err := deps.Gateway.RefreshSession(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		return &auth.SessionUser{
			ID:           s.User.ID,
			Name:         s.User.FullName,
			Email:        s.User.Email,
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
		}, nil
	})

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// CSRF protection for all form posts. The token travels in the
	// gorilla.csrf.Token hidden input every form template carries.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Gateway, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.Gateway, sessionMgr, errLog,
		appCfg.BaseURL, appCfg.GoogleOAuth, appCfg.GitHubOAuth, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

	oauthHandler := oauthfeature.NewHandler(deps.Gateway, sessionMgr, appCfg.BaseURL,
		map[string]bool{"google": appCfg.GoogleOAuth, "github": appCfg.GitHubOAuth}, logger)
	r.Mount("/auth", oauthfeature.Routes(oauthHandler))

	logoutHandler := logoutfeature.NewHandler(deps.Gateway, sessionMgr, errLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Student dashboard with its HTMX section partials
	dashboardHandler := dashboardfeature.NewHandler(deps.Gateway, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Course catalog and enrollment
	coursesHandler := coursesfeature.NewHandler(deps.Gateway, errLog, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler, sessionMgr))

	// Class schedule and booking
	classesHandler := classesfeature.NewHandler(deps.Gateway, errLog, logger)
	r.Mount("/classes", classesfeature.Routes(classesHandler, sessionMgr))

	// Teacher directory
	teachersHandler := teachersfeature.NewHandler(deps.Gateway, logger)
	r.Mount("/teachers", teachersfeature.Routes(teachersHandler, sessionMgr))

	// Progress overview
	progressHandler := progressfeature.NewHandler(deps.Gateway, logger)
	r.Mount("/progress", progressfeature.Routes(progressHandler, sessionMgr))

	// Messages placeholder
	messagesHandler := messagesfeature.NewHandler(logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// Profile settings
	settingsHandler := settingsfeature.NewHandler(deps.Gateway, sessionMgr, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	return r, nil
}
