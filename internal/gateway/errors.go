// internal/gateway/errors.go
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes the backend uses for outcomes the app treats as routine
// rather than failures.
const (
	// CodeNoRows is returned by the row API when a .Single() read
	// matches nothing. Expected for rows created lazily (stats).
	CodeNoRows = "PGRST116"

	// CodeUniqueViolation is the Postgres duplicate-key code. The app
	// relies on it as the "already exists" signal for enrollments,
	// profile creation, and default stats.
	CodeUniqueViolation = "23505"
)

// APIError is a non-2xx response from either backend API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

// IsNoRows reports whether err is a single-row read that found nothing.
func IsNoRows(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeNoRows
}

// IsUniqueViolation reports whether err is a duplicate-key insert.
func IsUniqueViolation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeUniqueViolation
}

// IsUnauthorized reports whether err means the access token was missing,
// expired, or rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// decodeAPIError maps an error body onto APIError. The row API sends
// {"code","message","details"}; the identity API sends one of
// {"msg"}, {"message"} or {"error","error_description"} depending on
// the endpoint, so all shapes are tried.
func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Msg
	}
	if msg == "" {
		msg = payload.ErrorDescription
	}
	if msg == "" {
		msg = payload.ErrorField
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &APIError{
		Status:  status,
		Code:    payload.Code,
		Message: msg,
	}
}
