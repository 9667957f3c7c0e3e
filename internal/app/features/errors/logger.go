// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/lingualearn/lingualearn/internal/app/system/viewdata"
)

// ErrorLogger pairs error logging with the page the user sees, so
// handlers log and reply in one call instead of repeating both.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger for a feature handler.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs err at error level under op and renders a generic
// error page. The real error never reaches the client; userMsg does.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	e.renderError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs err at warn level under op and renders the error
// page with userMsg (validation text, safe to show).
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Warn(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	e.renderError(w, r, http.StatusBadRequest, userMsg, backURL)
}

func (e *ErrorLogger) renderError(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	// HTMX partial requests get a plain error body; swapping a full
	// error page into a fragment target makes a mess.
	if r.Header.Get("HX-Request") == "true" {
		http.Error(w, userMsg, status)
		return
	}

	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Error", backURL),
		Message: userMsg,
	})
}
