// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Signed-in users have no business on the login page.
	r.Use(sm.RedirectIfAuthenticated)

	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	r.Post("/register", h.HandleRegisterPost)
	r.Get("/forgot-password", h.ServeForgotPassword)
	r.Post("/forgot-password", h.HandleForgotPassword)
	return r
}
