package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/buildtrack/internal/client/session"
)

// RefreshPath is the fixed endpoint that exchanges a refresh token for a new
// access token.
const RefreshPath = "/auth/refresh"

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (p tokenPayload) tokens() session.Tokens {
	return session.Tokens{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

// Refresh exchanges the stored refresh token for a new access token and
// stores it, keeping the old refresh token unless the backend sent a new one.
//
// It bypasses the request pipeline, so a 401 from the refresh endpoint is a
// plain failure. On any failure the store is left untouched: a missing
// refresh token yields ErrNoRefreshToken without a network call, a rejected
// or malformed reply yields ErrRefreshRejected, and transport failures match
// ErrUnavailable.
func (c *HTTPClient) Refresh(ctx context.Context) (string, error) {
	refreshToken, err := c.store.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, RefreshPath, payload, "")
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.StatusCode)
	}

	tokens, err := parseTokens(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshRejected, err)
	}

	if err := c.store.SetTokens(ctx, tokens); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}

	c.log.Info(ctx, "access token refreshed", "rotated_refresh_token", tokens.RefreshToken != "")
	return tokens.AccessToken, nil
}

// parseTokens extracts the token pair from a {success, data: {...}} envelope.
// The success indicator must be truthy and the access token present.
func parseTokens(resp *Response) (session.Tokens, error) {
	success, _ := resp.field("success")
	if !truthy(success) {
		return session.Tokens{}, fmt.Errorf("%w: success indicator not set", ErrUnexpectedBody)
	}

	var data tokenPayload
	if err := resp.Data(&data); err != nil {
		return session.Tokens{}, err
	}
	if data.AccessToken == "" {
		return session.Tokens{}, fmt.Errorf("%w: access token missing", ErrUnexpectedBody)
	}

	return data.tokens(), nil
}
