// internal/app/features/messages/handler.go
package messages

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
)

// Handler serves the messages placeholder page. Student-teacher
// messaging is not built yet; the nav entry links here so the section
// exists when it ships.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Mensajes", "/dashboard").WithSection("messages"),
	}

	templates.Render(w, r, "messages", data)
}
