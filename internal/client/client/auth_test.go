package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/buildtrack/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		seed       session.Tokens
		wantErr    error
		wantStatus int
		want       session.Tokens
	}{
		{
			name:   "stores token pair",
			status: http.StatusOK,
			body:   `{"success":true,"data":{"accessToken":"A1","refreshToken":"R1","user":{"id":"u1","email":"bob@site.test","role":"contractor"}}}`,
			want:   session.Tokens{AccessToken: "A1", RefreshToken: "R1"},
		},
		{
			name:   "replaces previous session entirely",
			status: http.StatusOK,
			body:   `{"success":true,"data":{"accessToken":"A9"}}`,
			seed:   session.Tokens{AccessToken: "OLD", RefreshToken: "OLDR"},
			want:   session.Tokens{AccessToken: "A9"},
		},
		{
			name:       "bad credentials stay a domain error",
			status:     http.StatusUnauthorized,
			body:       `{"success":false,"error":"Invalid credentials"}`,
			seed:       session.Tokens{AccessToken: "OLD", RefreshToken: "OLDR"},
			wantStatus: http.StatusUnauthorized,
			want:       session.Tokens{AccessToken: "OLD", RefreshToken: "OLDR"},
		},
		{
			name:    "missing token",
			status:  http.StatusOK,
			body:    `{"success":true,"data":{"user":{"id":"u1"}}}`,
			wantErr: ErrUnexpectedBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.router.Post("/api"+LoginPath, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			store := seededStore(t, tt.seed.AccessToken, tt.seed.RefreshToken)
			nav := &navigationRecorder{}
			c := newTestClient(t, api, store, WithSessionExpiredHandler(nav.handler))

			user, err := c.Login(context.Background(), "bob@site.test", "secret")

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, "Invalid credentials", apiErr.Message)
			default:
				require.NoError(t, err)
				if user != nil {
					assert.Equal(t, "bob@site.test", user.Email)
				}
			}

			if tt.wantErr == nil {
				assert.Equal(t, tt.want, storedTokens(t, store))
			}
			assert.Zero(t, api.refreshCalls.Load())
			assert.Zero(t, nav.calls.Load())

			reqs := api.captured("/api" + LoginPath)
			require.Len(t, reqs, 1)
			assert.Empty(t, reqs[0].Authorization)
			assert.JSONEq(t, `{"email":"bob@site.test","password":"secret"}`, reqs[0].Body)
		})
	}
}

func TestRegister(t *testing.T) {
	t.Run("without tokens", func(t *testing.T) {
		api := newFakeAPI(t)
		api.router.Post("/api"+RegisterPath, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, `{"success":true,"message":"Account created"}`)
		})

		store := session.NewMemoryStore()
		c := newTestClient(t, api, store)

		user, err := c.Register(context.Background(), RegisterRequest{
			Name: "Ann", Email: "ann@site.test", Password: "pw", Role: RoleCustomer,
		})
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.True(t, storedTokens(t, store).Empty())

		reqs := api.captured("/api" + RegisterPath)
		require.Len(t, reqs, 1)
		assert.JSONEq(t, `{"name":"Ann","email":"ann@site.test","password":"pw","role":"customer"}`, reqs[0].Body)
	})

	t.Run("signs in when tokens are returned", func(t *testing.T) {
		api := newFakeAPI(t)
		api.router.Post("/api"+RegisterPath, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"accessToken":"A1","refreshToken":"R1","user":{"id":"u2","name":"Ann"}}}`)
		})

		store := session.NewMemoryStore()
		c := newTestClient(t, api, store)

		user, err := c.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "ann@site.test", Password: "pw"})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "u2", user.ID)
		assert.Equal(t, session.Tokens{AccessToken: "A1", RefreshToken: "R1"}, storedTokens(t, store))
	})

	t.Run("conflict", func(t *testing.T) {
		api := newFakeAPI(t)
		api.router.Post("/api"+RegisterPath, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, `{"success":false,"message":"Email already registered"}`)
		})

		c := newTestClient(t, api, session.NewMemoryStore())
		_, err := c.Register(context.Background(), RegisterRequest{Email: "ann@site.test"})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Email already registered", apiErr.Message)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	t.Run("notifies backend and clears tokens", func(t *testing.T) {
		api := newFakeAPI(t)
		api.router.Post("/api"+LogoutPath, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":true}`)
		})

		store := seededStore(t, "A1", "R1")
		c := newTestClient(t, api, store)

		require.NoError(t, c.Logout(context.Background()))
		assert.True(t, storedTokens(t, store).Empty())

		reqs := api.captured("/api" + LogoutPath)
		require.Len(t, reqs, 1)
		assert.Equal(t, "Bearer A1", reqs[0].Authorization)
		assert.JSONEq(t, `{"refreshToken":"R1"}`, reqs[0].Body)
	})

	t.Run("backend failure does not block local logout", func(t *testing.T) {
		api := newFakeAPI(t)
		api.router.Post("/api"+LogoutPath, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{}`)
		})

		store := seededStore(t, "A1", "R1")
		nav := &navigationRecorder{}
		c := newTestClient(t, api, store, WithSessionExpiredHandler(nav.handler))

		require.NoError(t, c.Logout(context.Background()))
		assert.True(t, storedTokens(t, store).Empty())
		assert.Zero(t, api.refreshCalls.Load())
		assert.Zero(t, nav.calls.Load())
	})

	t.Run("already logged out skips backend", func(t *testing.T) {
		api := newFakeAPI(t)
		c := newTestClient(t, api, session.NewMemoryStore())

		require.NoError(t, c.Logout(context.Background()))
		assert.Empty(t, api.captured("/api"+LogoutPath))
	})
}

func TestMe(t *testing.T) {
	api := newFakeAPI(t)
	api.router.Get("/api"+MePath, acceptOnly("A2", `{"success":true,"data":{"id":"u1","email":"bob@site.test","name":"Bob","role":"admin"}}`))
	api.refreshWith(http.StatusOK, `{"success":true,"data":{"accessToken":"A2"}}`)

	c := newTestClient(t, api, seededStore(t, "A1", "R1"))

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "u1", Email: "bob@site.test", Name: "Bob", Role: RoleAdmin}, user)
	assert.EqualValues(t, 1, api.refreshCalls.Load())
}

func TestPing(t *testing.T) {
	api := newFakeAPI(t)
	api.router.Get("/api"+HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	})

	c := newTestClient(t, api, seededStore(t, "A1", "R1"))
	require.NoError(t, c.Ping(context.Background()))

	reqs := api.captured("/api" + HealthPath)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)

	api.srv.Close()
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}
