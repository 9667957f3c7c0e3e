// internal/app/features/dashboard/courses.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/domain/models"
)

// ServeCourses renders the active-courses fragment.
// GET /dashboard/courses
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	enrollments, err := h.loadActiveCourses(ctx, u)
	if err != nil {
		h.Log.Error("load courses failed", zap.String("user_id", u.ID), zap.Error(err))
		templates.Render(w, r, "dashboard_courses", coursesVM{sectionVM: sectionVM{Error: true}})
		return
	}

	vm := coursesVM{sectionVM: sectionVM{Empty: len(enrollments) == 0}}
	for _, e := range enrollments {
		c := courseVM{
			EnrollmentID: e.ID,
			Progress:     e.ProgressPercentage,
			Flag:         format.LanguageFlag(""),
		}
		if e.Course != nil {
			c.Flag = format.LanguageFlag(e.Course.Language)
			c.Name = e.Course.CourseName
			c.Level = e.Course.Level
		}
		vm.Courses = append(vm.Courses, c)
	}

	templates.Render(w, r, "dashboard_courses", vm)
}

func (h *Handler) loadActiveCourses(ctx context.Context, u *auth.SessionUser) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := h.Gateway.From("user_courses").
		Auth(u.AccessToken).
		Select("*, courses(course_name, language, level)").
		Eq("user_id", u.ID).
		Eq("is_active", true).
		Get(ctx, &enrollments)
	return enrollments, err
}
