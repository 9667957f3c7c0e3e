// internal/app/features/classes/schedule.go
package classes

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/timeouts"
	"github.com/lingualearn/lingualearn/internal/domain/models"
)

// Scheduling is not interactive yet: every booking is a conversation
// class tomorrow at 15:00 UTC. The real slot picker needs teacher
// availability data the backend does not expose so far.
const (
	scheduledClassName = "Clase de conversación"
	scheduledHourUTC   = 15
	scheduledMinutes   = 60
)

type classInsert struct {
	UserID          string    `json:"user_id"`
	ClassName       string    `json:"class_name"`
	ClassDate       time.Time `json:"class_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
}

// HandleSchedule books the placeholder class.
// POST /classes/schedule
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	classDate := nextSlot(time.Now().UTC())
	err := h.Gateway.From("user_classes").
		Auth(u.AccessToken).
		Insert(ctx, classInsert{
			UserID:          u.ID,
			ClassName:       scheduledClassName,
			ClassDate:       classDate,
			DurationMinutes: scheduledMinutes,
			Status:          models.ClassStatusScheduled,
		})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "schedule class", err,
			"No se pudo programar la clase. Inténtalo de nuevo.", "/classes")
		return
	}

	h.Log.Info("class scheduled",
		zap.String("user_id", u.ID),
		zap.Time("class_date", classDate))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Trigger", "classes-updated")
		w.Header().Set("HX-Redirect", "/classes")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/classes", http.StatusSeeOther)
}

// nextSlot returns tomorrow at the fixed slot hour, UTC.
func nextSlot(now time.Time) time.Time {
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), scheduledHourUTC, 0, 0, 0, time.UTC)
}
