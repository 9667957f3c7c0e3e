// internal/app/features/oauth/routes.go
package oauth

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/callback", h.ServeCallback)
	r.Get("/{provider}", h.ServeStart)
	return r
}
