// internal/app/system/auth/auth.go

// Package auth manages the cookie session that carries a signed-in
// user's identity-service tokens, and the middleware that turns those
// tokens into a per-request user in context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
)

// Session value keys.
const (
	isAuthKey       = "is_authenticated"
	userIDKey       = "user_id"
	userNameKey     = "user_name"
	userEmailKey    = "user_email"
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// SessionUser is what the session caches and what handlers see in
// request context. The tokens belong to the identity service; the app
// never inspects them, only forwards them.
type SessionUser struct {
	ID           string
	Name         string
	Email        string
	AccessToken  string
	RefreshToken string
}

// UserFetcher resolves a fresh identity for an access token. Wired by
// bootstrap to the gateway so this package stays transport-free.
type UserFetcher func(ctx context.Context, accessToken string) (*SessionUser, error)

// SessionRefresher trades a refresh token for a new token pair and the
// identity behind it. Used when the access token has expired mid-session.
type SessionRefresher func(ctx context.Context, refreshToken string) (*SessionUser, error)

// SessionManager owns the cookie store and the auth middleware.
type SessionManager struct {
	store     *sessions.CookieStore
	name      string
	log       *zap.Logger
	fetcher   UserFetcher
	refresher SessionRefresher
}

// NewSessionManager builds the cookie store. The secure flag controls
// Secure + SameSite; keep it false only for local http development.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (logout needs its options).
func (m *SessionManager) Store() *sessions.CookieStore {
	return m.store
}

// GetSession returns the request's session, or a fresh one when the
// cookie is missing or fails to decode. The error is informational;
// the returned session is always usable.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SetUserFetcher installs the per-request identity refresh. When set,
// LoadSessionUser revalidates the access token on every request so a
// revoked session signs out immediately.
func (m *SessionManager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// SetSessionRefresher installs the token refresh used when the access
// token expires. Without one, an expired token just signs the user out.
func (m *SessionManager) SetSessionRefresher(f SessionRefresher) {
	m.refresher = f
}

// SignIn writes an authenticated session for u.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
	}

	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userEmailKey] = u.Email
	sess.Values[accessTokenKey] = u.AccessToken
	sess.Values[refreshTokenKey] = u.RefreshToken

	return sess.Save(r, w)
}

// UpdateIdentity refreshes the cached display fields without touching
// the tokens. Used after a profile save so the header shows the new
// name on the very next render.
func (m *SessionManager) UpdateIdentity(w http.ResponseWriter, r *http.Request, name, email string) error {
	sess, err := m.GetSession(r)
	if err != nil {
		return err
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	sess.Values[userNameKey] = name
	if email != "" {
		sess.Values[userEmailKey] = email
	}
	return sess.Save(r, w)
}

// Clear deletes the session cookie, matching the store's options so the
// deletion cookie actually applies.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during clear", zap.Error(err))
	}

	if opts := m.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1

	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-user context                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user placed in context by LoadSessionUser.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the current user into context when the
// session holds valid tokens. With a fetcher installed the identity is
// revalidated against the auth service; any failure there means the
// request proceeds signed out, never an error page.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.GetSession(r)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:           getString(sess, userIDKey),
				Name:         getString(sess, userNameKey),
				Email:        getString(sess, userEmailKey),
				AccessToken:  getString(sess, accessTokenKey),
				RefreshToken: getString(sess, refreshTokenKey),
			}

			if m.fetcher != nil && u.AccessToken != "" {
				ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
				fresh, err := m.fetcher(ctx, u.AccessToken)
				cancel()
				if err != nil {
					// The hosted client library refreshes behind the
					// scenes; server-side it has to happen here.
					refreshed := m.tryRefresh(w, r, u)
					if refreshed == nil {
						m.log.Debug("session token rejected, treating as signed out",
							zap.String("user_id", u.ID),
							zap.Error(err))
						next.ServeHTTP(w, r)
						return
					}
					u = refreshed
				} else {
					u.ID = fresh.ID
					u.Name = fresh.Name
					u.Email = fresh.Email
				}
			}

			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// tryRefresh attempts a token refresh and, on success, rewrites the
// cookie session with the new pair. Returns nil when refresh is not
// configured, not possible, or rejected.
func (m *SessionManager) tryRefresh(w http.ResponseWriter, r *http.Request, u *SessionUser) *SessionUser {
	if m.refresher == nil || u.RefreshToken == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fresh, err := m.refresher(ctx, u.RefreshToken)
	if err != nil {
		m.log.Debug("session refresh rejected",
			zap.String("user_id", u.ID),
			zap.Error(err))
		return nil
	}

	if err := m.SignIn(w, r, fresh); err != nil {
		m.log.Warn("failed to persist refreshed session", zap.Error(err))
	} else {
		m.log.Debug("session refreshed", zap.String("user_id", fresh.ID))
	}
	return fresh
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/login?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// RedirectIfAuthenticated is the inverse guard for the login page:
// signed-in users go straight to the dashboard.
func (m *SessionManager) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
