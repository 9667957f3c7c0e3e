// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Inicia sesión", backURL),
		Message: "Inicia sesión para continuar.",
	}
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Acceso denegado", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_page", data)
}
