// internal/app/features/progress/handler.go
package progress

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// Handler serves the progress overview: the headline stats plus a
// per-course completion bar for every active enrollment.
type Handler struct {
	Gateway *gateway.Client
	Log     *zap.Logger
}

func NewHandler(gw *gateway.Client, logger *zap.Logger) *Handler {
	return &Handler{Gateway: gw, Log: logger}
}

type courseProgressVM struct {
	Flag     string
	Name     string
	Level    string
	Progress int
}

type pageData struct {
	viewdata.BaseVM
	Stats   models.Stats
	Courses []courseProgressVM
	Error   string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /progress                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Mi Progreso", "/dashboard").WithSection("progress"),
		Stats:  models.DefaultStats(user.ID),
	}

	// This page only reads; the dashboard stats section owns seeding the
	// row for new accounts.
	var stats models.Stats
	err := h.Gateway.From("user_stats").
		Auth(user.AccessToken).
		Select("*").
		Eq("user_id", user.ID).
		Single().
		Get(ctx, &stats)
	switch {
	case err == nil:
		data.Stats = stats
	case gateway.IsNoRows(err):
		// New account, keep the zero-valued defaults.
	default:
		h.Log.Error("load stats failed", zap.Error(err), zap.String("user_id", user.ID))
		data.Error = "No se pudo cargar tu progreso."
		templates.Render(w, r, "progress", data)
		return
	}

	var enrollments []models.Enrollment
	err = h.Gateway.From("user_courses").
		Auth(user.AccessToken).
		Select("*, courses(course_name, language, level)").
		Eq("user_id", user.ID).
		Eq("is_active", true).
		Get(ctx, &enrollments)
	if err != nil {
		h.Log.Error("load enrollments failed", zap.Error(err), zap.String("user_id", user.ID))
		data.Error = "No se pudo cargar tu progreso."
		templates.Render(w, r, "progress", data)
		return
	}

	data.Courses = make([]courseProgressVM, 0, len(enrollments))
	for _, e := range enrollments {
		vm := courseProgressVM{Progress: e.ProgressPercentage}
		if e.Course != nil {
			vm.Flag = format.LanguageFlag(e.Course.Language)
			vm.Name = e.Course.CourseName
			vm.Level = e.Course.Level
		}
		data.Courses = append(data.Courses, vm)
	}

	templates.Render(w, r, "progress", data)
}
