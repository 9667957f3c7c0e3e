// internal/app/features/classes/handler.go
package classes

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
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/domain/models"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

const pageClassLimit = 20

type Handler struct {
	Gateway *gateway.Client
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(gw *gateway.Client, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Gateway: gw, Log: logger, ErrLog: errLog}
}

type classVM struct {
	Day      string
	Time     string
	Name     string
	Teacher  string
	Duration int
	IsToday  bool
}

type pageData struct {
	viewdata.BaseVM
	Classes []classVM
}

// ServeClasses renders the classes page with the upcoming schedule.
// GET /classes
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	upcoming, err := h.loadUpcoming(ctx, u, now)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load classes", err,
			"No se pudieron cargar tus clases.", "/dashboard")
		return
	}

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Mis Clases", "/dashboard").WithSection("classes"),
	}
	for _, c := range upcoming {
		item := classVM{
			Day:      format.ClassDay(c.ClassDate, now),
			Time:     format.ClassTime(c.ClassDate),
			Name:     c.ClassName,
			Duration: c.DurationMinutes,
			IsToday:  format.IsToday(c.ClassDate, now),
		}
		if c.Teacher != nil {
			item.Teacher = c.Teacher.FullName
		}
		data.Classes = append(data.Classes, item)
	}

	templates.Render(w, r, "classes", data)
}

func (h *Handler) loadUpcoming(ctx context.Context, u *auth.SessionUser, now time.Time) ([]models.Class, error) {
	var upcoming []models.Class
	err := h.Gateway.From("user_classes").
		Auth(u.AccessToken).
		Select("*, teachers(full_name)").
		Eq("user_id", u.ID).
		Eq("status", models.ClassStatusScheduled).
		Gte("class_date", now).
		Order("class_date", true).
		Limit(pageClassLimit).
		Get(ctx, &upcoming)
	return upcoming, err
}
