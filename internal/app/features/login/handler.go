// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

type Handler struct {
	Gateway       *gateway.Client
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	BaseURL       string // Base URL for password-reset links (e.g., "https://lingualearn.app")
	GoogleEnabled bool
	GitHubEnabled bool
}

func NewHandler(
	gw *gateway.Client,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	baseURL string,
	googleEnabled, githubEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Gateway:       gw,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		BaseURL:       baseURL,
		GoogleEnabled: googleEnabled,
		GitHubEnabled: githubEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Notice        string
	Email         string
	FullName      string
	ActiveTab     string // "login" or "register"
	ReturnURL     string
	GoogleEnabled bool
	GitHubEnabled bool
}

type forgotFormData struct {
	viewdata.BaseVM
	Error  string
	Notice string
	Email  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	tab := query.Get(r, "tab")
	if tab != "register" {
		tab = "login"
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Iniciar Sesión", "/"),
		ActiveTab:     tab,
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
		GitHubEnabled: h.GitHubEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulario inválido.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Introduce tu correo y contraseña.", email, "login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		if gateway.IsUnauthorized(err) || isBadCredentials(err) {
			h.Log.Info("sign-in rejected", zap.String("email", email))
			h.renderFormWithError(w, r, "Correo o contraseña incorrectos.", email, "login")
			return
		}
		h.ErrLog.LogServerError(w, r, "sign in", err, "No se pudo iniciar sesión. Inténtalo de nuevo.", "/login")
		return
	}

	h.createSessionAndRedirect(w, r, sess, strings.TrimSpace(r.FormValue("return")))
}

// isBadCredentials covers the 400 invalid_grant the auth service
// returns for a wrong password.
func isBadCredentials(err error) bool {
	var apiErr *gateway.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/register                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulario inválido.", "/login")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")
	terms := r.FormValue("terms")

	switch {
	case terms == "":
		h.renderRegisterWithError(w, r, "Debes aceptar los términos y condiciones", fullName, email)
		return
	case password != confirm:
		h.renderRegisterWithError(w, r, "Las contraseñas no coinciden", fullName, email)
		return
	case len(password) < 6:
		h.renderRegisterWithError(w, r, "La contraseña debe tener al menos 6 caracteres", fullName, email)
		return
	case email == "":
		h.renderRegisterWithError(w, r, "Introduce tu correo electrónico.", fullName, email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sess, err := h.Gateway.SignUp(ctx, email, password, fullName)
	if err != nil {
		if gateway.IsUniqueViolation(err) {
			h.renderRegisterWithError(w, r, "Ya existe una cuenta con ese correo.", fullName, email)
			return
		}
		h.ErrLog.LogServerError(w, r, "sign up", err, "No se pudo crear la cuenta. Inténtalo de nuevo.", "/login?tab=register")
		return
	}

	// The auth service may withhold tokens until the email is
	// confirmed. Without a token there is nothing to seed or sign in.
	if sess.AccessToken == "" {
		templates.Render(w, r, "login", loginFormData{
			BaseVM:        viewdata.NewBaseVM(r, "Iniciar Sesión", "/"),
			Notice:        "Cuenta creada. Revisa tu correo para confirmarla.",
			Email:         email,
			ActiveTab:     "login",
			GoogleEnabled: h.GoogleEnabled,
			GitHubEnabled: h.GitHubEnabled,
		})
		return
	}

	h.seedProfile(ctx, sess)
	h.createSessionAndRedirect(w, r, sess, "")
}

// seedProfile creates the user's profile row right after sign-up. A
// duplicate means a concurrent request already created it; anything
// else is logged and the row gets created lazily by the dashboard.
func (h *Handler) seedProfile(ctx context.Context, sess *gateway.Session) {
	profile := models.Profile{
		UserID:   sess.User.ID,
		FullName: sess.User.FullName,
		Email:    sess.User.Email,
	}
	err := h.Gateway.From("user_profiles").
		Auth(sess.AccessToken).
		Insert(ctx, profile)
	if err != nil && !gateway.IsUniqueViolation(err) {
		h.Log.Warn("profile seed failed",
			zap.String("user_id", sess.User.ID),
			zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /login/forgot-password                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForgotPassword(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login_forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Recuperar contraseña", "/login"),
	})
}

func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulario inválido.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		templates.Render(w, r, "login_forgot_password", forgotFormData{
			BaseVM: viewdata.NewBaseVM(r, "Recuperar contraseña", "/login"),
			Error:  "Introduce tu correo electrónico.",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Gateway.RequestPasswordReset(ctx, email, h.BaseURL+"/reset-password"); err != nil {
		h.ErrLog.LogServerError(w, r, "request password reset", err,
			"No se pudo enviar el correo de recuperación. Inténtalo de nuevo.", "/login/forgot-password")
		return
	}

	h.Log.Info("password reset requested", zap.String("email", email))

	// Same response whether or not the account exists.
	templates.Render(w, r, "login_forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Recuperar contraseña", "/login"),
		Notice: "Si existe una cuenta con ese correo, te hemos enviado un enlace para restablecer la contraseña.",
		Email:  email,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// createSessionAndRedirect writes the authenticated cookie session and
// sends the user to their destination.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, sess *gateway.Session, returnURL string) {
	su := &auth.SessionUser{
		ID:           sess.User.ID,
		Name:         sess.User.FullName,
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}

	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", su.ID))
		h.renderFormWithError(w, r, "No se pudo crear la sesión. Inténtalo de nuevo.", su.Email, "login")
		return
	}

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, tab string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Iniciar Sesión", "/"),
		Error:         msg,
		Email:         email,
		ActiveTab:     tab,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
		GitHubEnabled: h.GitHubEnabled,
	})
}

func (h *Handler) renderRegisterWithError(w http.ResponseWriter, r *http.Request, msg, fullName, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Crear Cuenta", "/"),
		Error:         msg,
		FullName:      fullName,
		Email:         email,
		ActiveTab:     "register",
		GoogleEnabled: h.GoogleEnabled,
		GitHubEnabled: h.GitHubEnabled,
	})
}
