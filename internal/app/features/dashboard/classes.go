// internal/app/features/dashboard/classes.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/format"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/domain/models"
)

const upcomingClassLimit = 5

// ServeClasses renders the upcoming-classes fragment.
// GET /dashboard/classes
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	classes, err := h.loadUpcomingClasses(ctx, u, now)
	if err != nil {
		h.Log.Error("load classes failed", zap.String("user_id", u.ID), zap.Error(err))
		templates.Render(w, r, "dashboard_classes", classesVM{sectionVM: sectionVM{Error: true}})
		return
	}

	vm := classesVM{sectionVM: sectionVM{Empty: len(classes) == 0}}
	for _, c := range classes {
		item := classVM{
			Day:     format.ClassDay(c.ClassDate, now),
			Time:    format.ClassTime(c.ClassDate),
			Name:    c.ClassName,
			IsToday: format.IsToday(c.ClassDate, now),
		}
		if c.Teacher != nil {
			item.Teacher = c.Teacher.FullName
		}
		vm.Classes = append(vm.Classes, item)
	}

	templates.Render(w, r, "dashboard_classes", vm)
}

func (h *Handler) loadUpcomingClasses(ctx context.Context, u *auth.SessionUser, now time.Time) ([]models.Class, error) {
	var classes []models.Class
	err := h.Gateway.From("user_classes").
		Auth(u.AccessToken).
		Select("*, teachers(full_name)").
		Eq("user_id", u.ID).
		Eq("status", models.ClassStatusScheduled).
		Gte("class_date", now).
		Order("class_date", true).
		Limit(upcomingClassLimit).
		Get(ctx, &classes)
	return classes, err
}
