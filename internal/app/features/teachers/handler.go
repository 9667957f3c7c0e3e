// internal/app/features/teachers/handler.go
package teachers

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

// Handler serves the teacher directory.
type Handler struct {
	Gateway *gateway.Client
	Log     *zap.Logger
}

func NewHandler(gw *gateway.Client, logger *zap.Logger) *Handler {
	return &Handler{Gateway: gw, Log: logger}
}

type teacherVM struct {
	Name      string
	Initials  string
	Specialty string
	Flag      string
	Language  string
	Bio       string
}

type pageData struct {
	viewdata.BaseVM
	Teachers []teacherVM
	Error    string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /teachers                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeTeachers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Profesores", "/dashboard").WithSection("teachers"),
	}

	var rows []models.Teacher
	err := h.Gateway.From("teachers").
		Auth(user.AccessToken).
		Select("*").
		Eq("is_active", true).
		Order("full_name", true).
		Get(ctx, &rows)
	if err != nil {
		h.Log.Error("load teachers failed", zap.Error(err), zap.String("user_id", user.ID))
		data.Error = "No se pudieron cargar los profesores."
		templates.Render(w, r, "teachers", data)
		return
	}

	data.Teachers = make([]teacherVM, 0, len(rows))
	for _, t := range rows {
		data.Teachers = append(data.Teachers, teacherVM{
			Name:      t.FullName,
			Initials:  format.Initials(t.FullName),
			Specialty: t.Specialty,
			Flag:      format.LanguageFlag(t.Language),
			Language:  t.Language,
			Bio:       t.Bio,
		})
	}

	templates.Render(w, r, "teachers", data)
}
