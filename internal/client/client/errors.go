package client

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionExpired  = errors.New("session expired")
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrRefreshRejected = errors.New("refresh rejected")
	ErrUnexpectedBody  = errors.New("unexpected response body")
)

// DefaultErrorMessage is used when a failed response carries neither an
// "error" nor a "message" field.
const DefaultErrorMessage = "Request failed"

// APIError is a response the backend delivered but marked as failed, either
// through the HTTP status or a falsy success indicator.
type APIError struct {
	Message    string
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets callers match API errors against the package sentinels:
// 401/403 match ErrUnauthorized and 502/503/504 match ErrUnavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrUnavailable:
		switch e.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
