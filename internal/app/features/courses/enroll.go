// internal/app/features/courses/enroll.go
package courses

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// enrollPoints is awarded to the activity feed entry for joining a course.
const enrollPoints = 10

type enrollmentInsert struct {
	UserID   string `json:"user_id"`
	CourseID int    `json:"course_id"`
	IsActive bool   `json:"is_active"`
}

type activityInsert struct {
	UserID       string              `json:"user_id"`
	ActivityType models.ActivityType `json:"activity_type"`
	Description  string              `json:"description"`
	Points       int                 `json:"points"`
}

// HandleEnroll enrolls the user in a course and appends the feed entry.
// POST /courses/{courseID}/enroll
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	courseID, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse course id", err, "Curso inválido.", "/courses")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	courseName := r.FormValue("course_name")

	err = h.Gateway.From("user_courses").
		Auth(u.AccessToken).
		Insert(ctx, enrollmentInsert{
			UserID:   u.ID,
			CourseID: courseID,
			IsActive: true,
		})
	switch {
	case gateway.IsUniqueViolation(err):
		// Already enrolled; no feed entry, no state change.
		h.renderEnrollResult(w, r, enrollResultVM{
			CourseID: courseID,
			Notice:   "Ya estás inscrito en este curso",
		})
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "enroll", err,
			"No se pudo completar la inscripción. Inténtalo de nuevo.", "/courses")
		return
	}

	// The feed entry is best effort: the enrollment already happened
	// and must not be rolled back over a cosmetic failure.
	description := "Te inscribiste en un nuevo curso"
	if courseName != "" {
		description = fmt.Sprintf("Te inscribiste en %s", courseName)
	}
	actErr := h.Gateway.From("user_activities").
		Auth(u.AccessToken).
		Insert(ctx, activityInsert{
			UserID:       u.ID,
			ActivityType: models.ActivityNewCourse,
			Description:  description,
			Points:       enrollPoints,
		})
	if actErr != nil {
		h.Log.Warn("activity append failed after enroll",
			zap.String("user_id", u.ID),
			zap.Int("course_id", courseID),
			zap.Error(actErr))
	}

	h.Log.Info("enrolled in course",
		zap.String("user_id", u.ID),
		zap.Int("course_id", courseID))

	// Other dashboard sections re-pull on this event.
	w.Header().Set("HX-Trigger", "courses-updated")
	h.renderEnrollResult(w, r, enrollResultVM{
		CourseID: courseID,
		Enrolled: true,
	})
}

func (h *Handler) renderEnrollResult(w http.ResponseWriter, r *http.Request, vm enrollResultVM) {
	if r.Header.Get("HX-Request") == "true" {
		templates.Render(w, r, "courses_enroll_result", vm)
		return
	}
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}
