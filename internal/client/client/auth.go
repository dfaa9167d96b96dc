package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
	LogoutPath   = "/auth/logout"
	MePath       = "/auth/me"
	HealthPath   = "/health"
)

// Account roles served by the platform.
const (
	RoleCustomer   = "customer"
	RoleContractor = "contractor"
	RoleAdmin      = "admin"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	tokenPayload
	User *User `json:"user,omitempty"`
}

// Login authenticates with email and password and stores the returned token
// pair. Wrong credentials come back as an *APIError; the refresh path is
// never involved.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*User, error) {
	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, LoginPath, payload, anonymous)
	if err != nil {
		return nil, err
	}

	auth, err := c.storeAuthPayload(ctx, resp, true)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.log.Info(ctx, "logged in", "email", email)
	return auth.User, nil
}

// Register creates an account. Backends that sign the user in right away
// return a token pair, which is stored as on Login.
func (c *HTTPClient) Register(ctx context.Context, r RegisterRequest) (*User, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode register request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, RegisterPath, payload, anonymous)
	if err != nil {
		return nil, err
	}

	auth, err := c.storeAuthPayload(ctx, resp, false)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return auth.User, nil
}

func (c *HTTPClient) storeAuthPayload(ctx context.Context, resp *Response, requireTokens bool) (authPayload, error) {
	var auth authPayload
	if err := resp.Data(&auth); err != nil {
		if !requireTokens && errors.Is(err, ErrUnexpectedBody) {
			return authPayload{}, nil
		}
		return authPayload{}, err
	}

	if auth.AccessToken == "" {
		if requireTokens {
			return authPayload{}, fmt.Errorf("%w: access token missing", ErrUnexpectedBody)
		}
		return auth, nil
	}

	// A new sign-in must not inherit the previous session's refresh token.
	if auth.RefreshToken == "" {
		if err := c.store.ClearTokens(ctx); err != nil {
			return authPayload{}, fmt.Errorf("clear tokens: %w", err)
		}
	}
	if err := c.store.SetTokens(ctx, auth.tokens()); err != nil {
		return authPayload{}, fmt.Errorf("store tokens: %w", err)
	}
	return auth, nil
}

// Logout tells the backend to revoke the refresh token and clears both
// tokens locally. The backend call is best effort; only a failure to clear
// local storage is returned.
func (c *HTTPClient) Logout(ctx context.Context) error {
	tokens, err := c.store.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}

	if tokens.AccessToken != "" || tokens.RefreshToken != "" {
		payload, err := json.Marshal(refreshRequest{RefreshToken: tokens.RefreshToken})
		if err == nil {
			_, err = c.do(ctx, http.MethodPost, LogoutPath, payload, bearerOnly)
		}
		if err != nil {
			c.log.Warn(ctx, "backend logout failed", "error", err)
		}
	}

	if err := c.store.ClearTokens(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	c.log.Info(ctx, "logged out")
	return nil
}

// Me returns the account behind the current session.
func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	resp, err := c.Get(ctx, MePath)
	if err != nil {
		return nil, err
	}

	var u User
	if err := resp.Data(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, HealthPath, nil, anonymous)
	return err
}
