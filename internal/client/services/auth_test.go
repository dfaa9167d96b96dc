package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
	"github.com/dmitrijs2005/buildtrack/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

type fakeClient struct {
	LoginErr    error
	RegisterErr error
	LogoutErr   error
	PingErr     error
	MeRet       *client.User
	MeErr       error

	LoginCalls    int
	RegisterCalls int
	LastEmail     string
	LastRegister  client.RegisterRequest
}

func (f *fakeClient) Do(ctx context.Context, method, path string, body any) (*client.Response, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.User, error) {
	f.LoginCalls++
	f.LastEmail = email
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return &client.User{Email: email}, nil
}

func (f *fakeClient) Register(ctx context.Context, r client.RegisterRequest) (*client.User, error) {
	f.RegisterCalls++
	f.LastRegister = r
	return nil, f.RegisterErr
}

func (f *fakeClient) Logout(ctx context.Context) error { return f.LogoutErr }

func (f *fakeClient) Me(ctx context.Context) (*client.User, error) { return f.MeRet, f.MeErr }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

// ---- helpers ----

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func newService(t *testing.T, fc *fakeClient, tokens session.Tokens) AuthService {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.SetTokens(context.Background(), tokens))
	return NewAuthService(fc, store)
}

// ---- tests ----

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("trims email", func(t *testing.T) {
		fc := &fakeClient{}
		svc := newService(t, fc, session.Tokens{})

		u, err := svc.Login(ctx, "  bob@site.test ", "pw")
		require.NoError(t, err)
		assert.Equal(t, "bob@site.test", u.Email)
		assert.Equal(t, "bob@site.test", fc.LastEmail)
	})

	t.Run("empty credentials never reach the client", func(t *testing.T) {
		fc := &fakeClient{}
		svc := newService(t, fc, session.Tokens{})

		_, err := svc.Login(ctx, " ", "pw")
		require.ErrorIs(t, err, ErrEmptyCredentials)
		_, err = svc.Login(ctx, "bob@site.test", "")
		require.ErrorIs(t, err, ErrEmptyCredentials)
		assert.Zero(t, fc.LoginCalls)
	})

	t.Run("propagates api errors", func(t *testing.T) {
		apiErr := &client.APIError{Message: "Invalid credentials", StatusCode: 401}
		svc := newService(t, &fakeClient{LoginErr: apiErr}, session.Tokens{})

		_, err := svc.Login(ctx, "bob@site.test", "bad")
		require.ErrorIs(t, err, client.ErrUnauthorized)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       client.RegisterRequest
		wantErr   bool
		wantCalls int
	}{
		{name: "customer", req: client.RegisterRequest{Name: " Ann ", Email: "ann@site.test", Password: "pw", Role: client.RoleCustomer}, wantCalls: 1},
		{name: "contractor", req: client.RegisterRequest{Email: "c@site.test", Password: "pw", Role: client.RoleContractor}, wantCalls: 1},
		{name: "default role", req: client.RegisterRequest{Email: "d@site.test", Password: "pw"}, wantCalls: 1},
		{name: "admin refused", req: client.RegisterRequest{Email: "x@site.test", Password: "pw", Role: client.RoleAdmin}, wantErr: true},
		{name: "missing password", req: client.RegisterRequest{Email: "x@site.test"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			svc := newService(t, fc, session.Tokens{})

			_, err := svc.Register(ctx, tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, fc.RegisterCalls)
		})
	}

	fc := &fakeClient{}
	svc := newService(t, fc, session.Tokens{})
	_, err := svc.Register(ctx, client.RegisterRequest{Name: " Ann ", Email: " ann@site.test ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", fc.LastRegister.Name)
	assert.Equal(t, "ann@site.test", fc.LastRegister.Email)
}

func TestAuthService_Passthrough(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	me := &client.User{ID: "u1", Role: client.RoleContractor}

	svc := newService(t, &fakeClient{LogoutErr: boom, PingErr: client.ErrUnavailable, MeRet: me}, session.Tokens{})

	require.ErrorIs(t, svc.Logout(ctx), boom)
	require.ErrorIs(t, svc.Ping(ctx), client.ErrUnavailable)

	got, err := svc.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, me, got)
}

func TestAuthService_Status(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	t.Run("logged out", func(t *testing.T) {
		st, err := newService(t, &fakeClient{}, session.Tokens{}).Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, SessionStatus{}, st)
	})

	t.Run("jwt claims", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "u42", "role": "contractor", "exp": exp.Unix()})
		st, err := newService(t, &fakeClient{}, session.Tokens{AccessToken: tok, RefreshToken: "R1"}).Status(ctx)
		require.NoError(t, err)

		assert.True(t, st.LoggedIn)
		assert.True(t, st.HasRefreshToken)
		assert.Equal(t, "u42", st.Subject)
		assert.Equal(t, "contractor", st.Role)
		assert.True(t, exp.Equal(st.ExpiresAt))
		assert.False(t, st.Expired(time.Now()))
		assert.True(t, st.Expired(exp.Add(time.Second)))
	})

	t.Run("expired jwt is still readable", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		tok := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": past.Unix()})
		st, err := newService(t, &fakeClient{}, session.Tokens{AccessToken: tok}).Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", st.Subject)
		assert.True(t, st.Expired(time.Now()))
	})

	t.Run("opaque token", func(t *testing.T) {
		st, err := newService(t, &fakeClient{}, session.Tokens{AccessToken: "opaque-token"}).Status(ctx)
		require.NoError(t, err)
		assert.True(t, st.LoggedIn)
		assert.False(t, st.HasRefreshToken)
		assert.Empty(t, st.Subject)
		assert.True(t, st.ExpiresAt.IsZero())
		assert.False(t, st.Expired(time.Now()))
	})
}
