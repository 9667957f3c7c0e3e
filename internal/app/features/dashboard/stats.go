// internal/app/features/dashboard/stats.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// ServeStats renders the stats cards fragment.
// GET /dashboard/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := h.loadOrCreateStats(ctx, u)
	if err != nil {
		h.Log.Error("load stats failed", zap.String("user_id", u.ID), zap.Error(err))
		templates.Render(w, r, "dashboard_stats", statsVM{sectionVM: sectionVM{Error: true}})
		return
	}

	templates.Render(w, r, "dashboard_stats", statsVM{
		CompletedLessons: stats.CompletedLessons,
		StudyHours:       stats.StudyHours,
		CurrentStreak:    stats.CurrentStreak,
		UserLevel:        stats.UserLevel,
	})
}

// loadOrCreateStats fetches the user's stats row, creating the default
// row on first visit. A duplicate on the create means another request
// got there first; either way the refetch is authoritative, and if the
// refetch still misses the in-memory defaults stand in for this render.
func (h *Handler) loadOrCreateStats(ctx context.Context, u *auth.SessionUser) (models.Stats, error) {
	stats, err := h.fetchStats(ctx, u)
	if err == nil {
		return stats, nil
	}
	if !gateway.IsNoRows(err) {
		return models.Stats{}, err
	}

	def := models.DefaultStats(u.ID)
	if err := h.Gateway.From("user_stats").Auth(u.AccessToken).Insert(ctx, def); err != nil {
		if !gateway.IsUniqueViolation(err) {
			return models.Stats{}, err
		}
	}

	stats, err = h.fetchStats(ctx, u)
	if err != nil {
		if gateway.IsNoRows(err) {
			return def, nil
		}
		return models.Stats{}, err
	}
	return stats, nil
}

func (h *Handler) fetchStats(ctx context.Context, u *auth.SessionUser) (models.Stats, error) {
	var stats models.Stats
	err := h.Gateway.From("user_stats").
		Auth(u.AccessToken).
		Eq("user_id", u.ID).
		Single().
		Get(ctx, &stats)
	return stats, err
}
