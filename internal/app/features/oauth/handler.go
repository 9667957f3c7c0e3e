// internal/app/features/oauth/handler.go
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// Session keys for the in-flight OAuth handshake. The state and PKCE
// verifier live in the cookie session between the redirect out and the
// callback; they are single use.
const (
	stateKey    = "oauth_state"
	verifierKey = "oauth_verifier"
	returnKey   = "oauth_return"
)

// Handler drives the social sign-in flow. The identity service fronts
// the actual providers; this app only ever talks to it.
type Handler struct {
	Gateway    *gateway.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	BaseURL    string // e.g., "https://lingualearn.app"

	// Enabled providers, e.g. {"google": true, "github": true}.
	Providers map[string]bool
}

func NewHandler(gw *gateway.Client, sessionMgr *auth.SessionManager, baseURL string, providers map[string]bool, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway:    gw,
		Log:        logger,
		SessionMgr: sessionMgr,
		BaseURL:    baseURL,
		Providers:  providers,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/{provider}                                                         |
| Starts the flow by redirecting to the identity service's authorize page.     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.Providers[provider] {
		h.Log.Warn("oauth provider not enabled", zap.String("provider", provider))
		http.Redirect(w, r, "/login?error=provider_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	verifier := oauth2.GenerateVerifier()

	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		h.Log.Warn("session cookie invalid, using fresh session", zap.Error(err))
	}
	sess.Values[stateKey] = state
	sess.Values[verifierKey] = verifier
	sess.Values[returnKey] = query.Get(r, "return")
	if err := sess.Save(r, w); err != nil {
		h.Log.Error("save session failed before OAuth redirect", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	cfg := h.Gateway.OAuthConfig(h.BaseURL + "/auth/callback")
	url := cfg.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		gateway.ProviderOption(provider))

	h.Log.Debug("initiating OAuth flow",
		zap.String("provider", provider),
		zap.String("redirect_url", url))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/callback                                                           |
| Validates state, exchanges the code (PKCE), and signs the user in.           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("OAuth provider error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=provider_denied", http.StatusSeeOther)
		return
	}

	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		h.Log.Warn("session decode failed during OAuth callback", zap.Error(err))
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	wantState, _ := sess.Values[stateKey].(string)
	verifier, _ := sess.Values[verifierKey].(string)
	returnURL, _ := sess.Values[returnKey].(string)

	// One shot; a replayed callback must not match.
	delete(sess.Values, stateKey)
	delete(sess.Values, verifierKey)
	delete(sess.Values, returnKey)
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("save session failed during OAuth callback", zap.Error(err))
	}

	state := r.URL.Query().Get("state")
	if state == "" || wantState == "" || state != wantState {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" || verifier == "" {
		h.Log.Warn("missing OAuth code or verifier")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cfg := h.Gateway.OAuthConfig(h.BaseURL + "/auth/callback")
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		h.Log.Error("OAuth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	authSess, err := h.Gateway.SessionFromToken(ctx, token)
	if err != nil {
		h.Log.Error("failed to resolve user after OAuth exchange", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	su := &auth.SessionUser{
		ID:           authSess.User.ID,
		Name:         authSess.User.FullName,
		Email:        authSess.User.Email,
		AccessToken:  authSess.AccessToken,
		RefreshToken: authSess.RefreshToken,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session failed after OAuth", zap.Error(err), zap.String("user_id", su.ID))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via OAuth", zap.String("user_id", su.ID))

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
