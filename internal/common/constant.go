// Package common contains shared constants used across buildtrack
// components: HTTP header names and persistent storage keys.
package common

// HTTP header names and values attached to outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	ContentTypeHeaderName   = "Content-Type"
	ContentTypeJSON         = "application/json"
	AcceptHeaderName        = "Accept"
	RequestIDHeaderName     = "X-Request-ID"
)

// Keys under which the session credentials live in persistent storage.
const (
	AccessTokenStorageKey  = "accessToken"
	RefreshTokenStorageKey = "refreshToken"
)
