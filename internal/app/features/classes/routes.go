// internal/app/features/classes/routes.go
package classes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeClasses)
		pr.Post("/schedule", h.HandleSchedule)
	})

	return r
}
