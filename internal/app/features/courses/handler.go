// internal/app/features/courses/handler.go
package courses

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

type Handler struct {
	Gateway *gateway.Client
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(gw *gateway.Client, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Gateway: gw, Log: logger, ErrLog: errLog}
}

// ServeCatalog renders the course catalog with the user's enrollment
// state marked on each card.
// GET /courses
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	catalog, err := h.loadCatalog(ctx, u)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load catalog", err,
			"No se pudo cargar el catálogo de cursos.", "/dashboard")
		return
	}

	enrolled, err := h.loadEnrolledCourseIDs(ctx, u)
	if err != nil {
		h.Log.Warn("load enrollments failed, rendering catalog without state",
			zap.String("user_id", u.ID), zap.Error(err))
		enrolled = nil
	}

	data := catalogData{
		BaseVM: viewdata.NewBaseVM(r, "Cursos", "/dashboard").WithSection("courses"),
	}
	for _, c := range catalog {
		data.Courses = append(data.Courses, catalogCourseVM{
			ID:          c.ID,
			Flag:        format.LanguageFlag(c.Language),
			Name:        c.CourseName,
			Language:    c.Language,
			Level:       c.Level,
			Description: c.Description,
			Enrolled:    enrolled[c.ID],
		})
	}

	templates.Render(w, r, "courses_catalog", data)
}

func (h *Handler) loadCatalog(ctx context.Context, u *auth.SessionUser) ([]models.Course, error) {
	var catalog []models.Course
	err := h.Gateway.From("courses").
		Auth(u.AccessToken).
		Eq("is_active", true).
		Order("course_name", true).
		Get(ctx, &catalog)
	return catalog, err
}

func (h *Handler) loadEnrolledCourseIDs(ctx context.Context, u *auth.SessionUser) (map[int]bool, error) {
	var enrollments []models.Enrollment
	err := h.Gateway.From("user_courses").
		Auth(u.AccessToken).
		Select("course_id").
		Eq("user_id", u.ID).
		Eq("is_active", true).
		Get(ctx, &enrollments)
	if err != nil {
		return nil, err
	}

	ids := make(map[int]bool, len(enrollments))
	for _, e := range enrollments {
		ids[e.CourseID] = true
	}
	return ids, nil
}
