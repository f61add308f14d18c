package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a non-2xx response from the backend
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// newError builds an Error from a response body, picking up the message
// formats the backend uses ({"error": ...} or {"detail": ...}).
func newError(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode}

	var payload struct {
		ErrorMsg string `json:"error"`
		Detail   string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.ErrorMsg != "" {
			apiErr.Message = payload.ErrorMsg
		} else if payload.Detail != "" {
			apiErr.Message = payload.Detail
		}
	}

	return apiErr
}

// IsUnauthorized reports whether err is a 401/403 backend response
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsNotFound reports whether err is a 404 backend response
func IsNotFound(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
