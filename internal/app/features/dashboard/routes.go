// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/dashboard").
//
// The page is a shell; the section endpoints below it serve the
// fragments the shell pulls in.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/stats", h.ServeStats)
		pr.Get("/courses", h.ServeCourses)
		pr.Get("/classes", h.ServeClasses)
		pr.Get("/activity", h.ServeActivity)
	})

	return r
}
