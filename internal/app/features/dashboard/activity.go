// internal/app/features/dashboard/activity.go
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

const recentActivityLimit = 10

// ServeActivity renders the recent-activity fragment.
// GET /dashboard/activity
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activities, err := h.loadRecentActivity(ctx, u)
	if err != nil {
		h.Log.Error("load activity failed", zap.String("user_id", u.ID), zap.Error(err))
		templates.Render(w, r, "dashboard_activity", activitiesVM{sectionVM: sectionVM{Error: true}})
		return
	}

	now := time.Now().UTC()
	vm := activitiesVM{sectionVM: sectionVM{Empty: len(activities) == 0}}
	for _, a := range activities {
		vm.Activities = append(vm.Activities, activityVM{
			Icon:        format.ActivityIcon(a.ActivityType),
			Description: a.Description,
			TimeAgo:     format.RelativeTime(a.CreatedAt, now),
			Points:      a.Points,
		})
	}

	templates.Render(w, r, "dashboard_activity", vm)
}

func (h *Handler) loadRecentActivity(ctx context.Context, u *auth.SessionUser) ([]models.Activity, error) {
	var activities []models.Activity
	err := h.Gateway.From("user_activities").
		Auth(u.AccessToken).
		Eq("user_id", u.ID).
		Order("created_at", false).
		Limit(recentActivityLimit).
		Get(ctx, &activities)
	return activities, err
}
