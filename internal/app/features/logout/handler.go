// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

type Handler struct {
	Gateway    *gateway.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(gw *gateway.Client, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway:    gw,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

// ServeLogout handles POST /logout (and GET for plain links).
//
// The access token is revoked server-side first, then the cookie session
// is dropped. A token the service already rejects counts as revoked. If
// revocation fails outright the session is kept so the user can retry;
// silently dropping the cookie would leave the token live server-side.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok && user.AccessToken != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		if err := h.Gateway.SignOut(ctx, user.AccessToken); err != nil && !gateway.IsUnauthorized(err) {
			h.ErrLog.LogServerError(w, r, "remote sign-out failed", err,
				"No se pudo cerrar la sesión. Inténtalo de nuevo.", "/dashboard")
			return
		}
	}

	if err := h.SessionMgr.Clear(w, r); err != nil {
		h.Log.Error("clear session failed during logout", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
