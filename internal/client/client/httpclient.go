package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/client/session"
	"github.com/dmitrijs2005/buildtrack/internal/common"
	"github.com/dmitrijs2005/buildtrack/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// HTTPClient talks JSON to the backend REST API. It attaches the stored
// access token to every request and, on a 401, refreshes the session once
// and retries the request once.
type HTTPClient struct {
	baseURL          string
	http             *http.Client
	timeout          time.Duration
	store            session.Store
	log              logging.Logger
	metrics          *Metrics
	onSessionExpired func(ctx context.Context)
	newRequestID     func() string
	refreshGroup     singleflight.Group
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every single round-trip (initial, refresh and retry
// each get their own budget). Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// WithSessionExpiredHandler registers fn to run when the session cannot be
// recovered, after both tokens have been cleared. The application shell uses
// it to send the user back to the login entry point.
func WithSessionExpiredHandler(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onSessionExpired = fn }
}

// New builds a client for the API rooted at baseURL, which must be absolute
// (scheme and host).
func New(baseURL string, store session.Store, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}

	c := &HTTPClient{
		baseURL:      strings.TrimRight(u.String(), "/"),
		http:         &http.Client{},
		store:        store,
		log:          logging.Nop(),
		newRequestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root requests are resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Store returns the session store the client reads tokens from.
func (c *HTTPClient) Store() session.Store {
	return c.store
}

// Do sends an authenticated request. body may be nil, raw JSON
// (json.RawMessage or []byte) or any value encoding/json can marshal.
//
// A 401 triggers exactly one refresh and one retry; the retry's outcome is
// final. If the session cannot be refreshed, both tokens are cleared, the
// session-expired handler runs and the returned error matches
// ErrSessionExpired. Responses with an error status or a falsy success
// indicator are returned as *APIError. A body that carries no success field
// at all (204, arrays, plain objects) is judged by its status alone, unlike
// the refresh endpoint, which must answer with a truthy one. Transport
// failures match ErrUnavailable and are not retried.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, payload, authenticated)
}

func (c *HTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

func (c *HTTPClient) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// policy says how a request uses the session.
type policy int

const (
	// anonymous requests carry no token and never refresh.
	anonymous policy = iota
	// bearerOnly requests carry the token but a 401 is final.
	bearerOnly
	// authenticated requests carry the token and recover from one 401.
	authenticated
)

func (c *HTTPClient) do(ctx context.Context, method, path string, payload []byte, p policy) (*Response, error) {
	var token string
	if p != anonymous {
		var err error
		if token, err = c.store.AccessToken(ctx); err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || p != authenticated {
		return result(resp)
	}

	token, err = c.recoverSession(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err = c.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}
	return result(resp)
}

func result(resp *Response) (*Response, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// recoverSession returns the access token to retry with after a 401 that was
// answered to staleToken.
func (c *HTTPClient) recoverSession(ctx context.Context, staleToken string) (string, error) {
	// Another request may already have refreshed while this one was in flight.
	if current, err := c.store.AccessToken(ctx); err == nil && current != "" && current != staleToken {
		c.metrics.incRefresh(RefreshReused)
		return current, nil
	}

	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// Shared by every waiter, so one caller's cancellation must not end
		// the session for the rest.
		rctx := context.WithoutCancel(ctx)
		token, err := c.Refresh(rctx)
		if err != nil {
			c.metrics.incRefresh(RefreshFailed)
			c.expireSession(rctx, err)
			return "", err
		}
		c.metrics.incRefresh(RefreshSucceeded)
		return token, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return v.(string), nil
}

func (c *HTTPClient) expireSession(ctx context.Context, cause error) {
	c.log.Warn(ctx, "session expired", "cause", cause)
	c.metrics.incSessionExpired()

	if err := c.store.ClearTokens(ctx); err != nil {
		c.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx)
	}
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, token string) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := c.newRequestID()
	req.Header.Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	req.Header.Set(common.AcceptHeaderName, common.ContentTypeJSON)
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.incTransportError()
		log.Debug(ctx, "request failed", "error", err)
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.metrics.incTransportError()
		return nil, fmt.Errorf("%w: read %s %s response: %w", ErrUnavailable, method, path, err)
	}

	c.metrics.observeRequest(method, res.StatusCode, start)
	log.Debug(ctx, "request done", "status", res.StatusCode, "duration", time.Since(start))

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       normalizeBody(raw),
	}, nil
}

func (c *HTTPClient) url(path string) string {
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if !json.Valid(b) {
			return nil, errors.New("request body is not valid JSON")
		}
		return b, nil
	case []byte:
		if !json.Valid(b) {
			return nil, errors.New("request body is not valid JSON")
		}
		return b, nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return payload, nil
	}
}
