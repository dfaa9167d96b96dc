package client

import (
	"context"
)

// Client is the API surface the services and the CLI depend on.
// *HTTPClient implements it.
type Client interface {
	Do(ctx context.Context, method, path string, body any) (*Response, error)
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, r RegisterRequest) (*User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	Ping(ctx context.Context) error
}

var _ Client = (*HTTPClient)(nil)
