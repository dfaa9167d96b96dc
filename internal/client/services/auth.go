// Package services contains application services for the buildtrack CLI.
// This file defines the authentication service: login, registration,
// logout, liveness check and inspection of the current session.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
	"github.com/dmitrijs2005/buildtrack/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptyCredentials = errors.New("email and password are required")

// SessionStatus describes the stored session as far as the client can tell
// without asking the backend.
type SessionStatus struct {
	LoggedIn        bool
	HasRefreshToken bool
	// Subject and ExpiresAt come from the access token's claims when it is
	// a JWT; they stay zero for opaque tokens.
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the access token's expiry has passed at now.
// Tokens without an expiry never report as expired.
func (s SessionStatus) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate and store the token pair.
//   - Register: create an account (and sign in when the backend allows it).
//   - Logout: end the session on the backend and locally.
//   - WhoAmI: fetch the account behind the session.
//   - Ping: check server liveness.
//   - Status: describe the stored session without a network call.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*client.User, error)
	Register(ctx context.Context, r client.RegisterRequest) (*client.User, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*client.User, error)
	Ping(ctx context.Context) error
	Status(ctx context.Context) (SessionStatus, error)
}

type authService struct {
	client client.Client
	store  session.Store
	parser *jwt.Parser
}

// NewAuthService constructs an AuthService over the API client and the
// session store the client reads from.
func NewAuthService(c client.Client, store session.Store) AuthService {
	return &authService{client: c, store: store, parser: jwt.NewParser()}
}

func (a *authService) Login(ctx context.Context, email, password string) (*client.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	return a.client.Login(ctx, email, password)
}

func (a *authService) Register(ctx context.Context, r client.RegisterRequest) (*client.User, error) {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Email == "" || r.Password == "" {
		return nil, ErrEmptyCredentials
	}
	switch r.Role {
	case "", client.RoleCustomer, client.RoleContractor:
	default:
		return nil, fmt.Errorf("role %q cannot be self-assigned", r.Role)
	}
	return a.client.Register(ctx, r)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.client.Logout(ctx)
}

func (a *authService) WhoAmI(ctx context.Context) (*client.User, error) {
	return a.client.Me(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Status reads the stored tokens. Claims are decoded without verifying the
// signature; they are for display only.
func (a *authService) Status(ctx context.Context) (SessionStatus, error) {
	tokens, err := a.store.Tokens(ctx)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("read session: %w", err)
	}

	st := SessionStatus{
		LoggedIn:        tokens.AccessToken != "",
		HasRefreshToken: tokens.RefreshToken != "",
	}
	if !st.LoggedIn {
		return st, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := a.parser.ParseUnverified(tokens.AccessToken, claims); err != nil {
		// opaque token
		return st, nil
	}

	st.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		st.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		st.Role = role
	}
	return st, nil
}
