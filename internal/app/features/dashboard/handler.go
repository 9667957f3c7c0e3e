// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/lingualearn/lingualearn/internal/app/features/errors"
	"github.com/lingualearn/lingualearn/internal/app/system/auth"
	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// Handler serves the dashboard page and its section fragments. The
// page itself is a shell; each section loads through its own endpoint
// so one slow query never blocks the rest.
type Handler struct {
	Gateway *gateway.Client
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(gw *gateway.Client, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway: gw,
		Log:     logger,
		ErrLog:  errLog,
	}
}

// ServeDashboard renders the page shell.
// GET /dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	templates.Render(w, r, "dashboard", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Mi Panel", "/").WithSection("dashboard"),
		UserID: u.ID,
	})
}
