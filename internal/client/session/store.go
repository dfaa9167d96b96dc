// Package session owns the client's credentials: the access/refresh token
// pair that is attached to API requests and replaced on login, refresh and
// logout.
//
// Every Store implementation keeps the pair consistent: SetTokens replaces
// both values in one step, ClearTokens removes both, and concurrent readers
// never observe a half-written pair.
package session

import (
	"context"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

// Tokens is the credential pair held by a session. An empty field means the
// token is absent.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether neither token is present.
func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Store persists the session's token pair.
type Store interface {
	// Tokens returns the current pair; a zero Tokens means logged out.
	Tokens(ctx context.Context) (Tokens, error)
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	// SetTokens replaces the pair. An empty RefreshToken keeps the stored one.
	SetTokens(ctx context.Context, t Tokens) error
	// ClearTokens removes both tokens.
	ClearTokens(ctx context.Context) error
}
