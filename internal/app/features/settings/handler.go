// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// Handler serves the profile settings page. The profile row and the
// identity metadata both carry the display name; a save updates both so
// neither drifts.
type Handler struct {
	Gateway    *gateway.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger

	sanitizer *bluemonday.Policy
}

func NewHandler(gw *gateway.Client, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway:    gw,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

type settingsData struct {
	viewdata.BaseVM
	FullName string
	Email    string
	Bio      string
	Error    string
	Success  string
}

// profileUpsert is the write shape for the user_profiles row.
type profileUpsert struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /settings                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := settingsData{
		BaseVM:   viewdata.NewBaseVM(r, "Configuración", "/dashboard").WithSection("settings"),
		FullName: user.Name,
		Email:    user.Email,
	}

	var profile models.Profile
	err := h.Gateway.From("user_profiles").
		Auth(user.AccessToken).
		Select("*").
		Eq("user_id", user.ID).
		Single().
		Get(ctx, &profile)
	switch {
	case err == nil:
		data.FullName = profile.FullName
		data.Bio = profile.Bio
	case gateway.IsNoRows(err):
		// First visit before any save; the session identity is enough.
	default:
		h.Log.Warn("load profile failed", zap.Error(err), zap.String("user_id", user.ID))
	}

	if query.Get(r, "success") == "profile" {
		data.Success = "Perfil actualizado correctamente."
	}

	templates.Render(w, r, "settings", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /settings                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSettingsPost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse settings form failed", err, "Datos del formulario no válidos.", "/settings")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	bio := h.sanitizer.Sanitize(strings.TrimSpace(r.FormValue("bio")))

	if fullName == "" {
		h.renderWithError(w, r, user, fullName, bio, "El nombre no puede estar vacío.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	row := profileUpsert{
		UserID:   user.ID,
		FullName: fullName,
		Email:    user.Email,
		Bio:      bio,
	}
	err := h.Gateway.From("user_profiles").
		Auth(user.AccessToken).
		Upsert(ctx, "user_id", row)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upsert profile failed", err,
			"No se pudo guardar tu perfil. Inténtalo de nuevo.", "/settings")
		return
	}

	// Keep the identity metadata in step with the profile row so sign-in
	// greetings and future profile seeds use the new name.
	if _, err := h.Gateway.UpdateUserMetadata(ctx, user.AccessToken, map[string]any{"full_name": fullName}); err != nil {
		h.Log.Warn("update identity metadata failed", zap.Error(err), zap.String("user_id", user.ID))
	}

	if err := h.SessionMgr.UpdateIdentity(w, r, fullName, user.Email); err != nil {
		h.Log.Warn("refresh session identity failed", zap.Error(err), zap.String("user_id", user.ID))
	}

	http.Redirect(w, r, "/settings?success=profile", http.StatusSeeOther)
}

func (h *Handler) renderWithError(w http.ResponseWriter, r *http.Request, user *auth.SessionUser, fullName, bio, msg string) {
	data := settingsData{
		BaseVM:   viewdata.NewBaseVM(r, "Configuración", "/dashboard").WithSection("settings"),
		FullName: fullName,
		Email:    user.Email,
		Bio:      bio,
		Error:    msg,
	}
	templates.Render(w, r, "settings", data)
}
