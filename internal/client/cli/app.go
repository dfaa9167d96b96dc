package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
	"github.com/dmitrijs2005/buildtrack/internal/client/config"
	"github.com/dmitrijs2005/buildtrack/internal/client/services"
	"github.com/dmitrijs2005/buildtrack/internal/client/session"
	"github.com/dmitrijs2005/buildtrack/internal/logging"
	"github.com/prometheus/client_golang/prometheus"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// requester sends raw API requests; *client.HTTPClient implements it.
type requester interface {
	Do(ctx context.Context, method, path string, body any) (*client.Response, error)
}

type App struct {
	config      *config.Config
	authService services.AuthService
	api         requester
	gatherer    prometheus.Gatherer
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	db          *sql.DB

	mu       sync.Mutex
	userName string
	mode     Mode

	// loginRequested is set when the session could not be recovered; the
	// REPL answers it by showing the login prompt.
	loginRequested atomic.Bool
}

// NewApp wires local storage, the session store, the API client and the
// services for the given configuration.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	baseURL, err := c.BaseURL()
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.StoragePath)
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	app := &App{
		config:   c,
		gatherer: reg,
		log:      l,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		db:       db,
	}

	store := session.NewSQLiteStore(db)
	apiClient, err := client.New(baseURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(l),
		client.WithMetrics(client.NewMetrics(reg)),
		client.WithSessionExpiredHandler(app.SessionExpired),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app.api = apiClient
	app.authService = services.NewAuthService(apiClient, store)
	return app, nil
}

// SessionExpired is the session boundary: the tokens are already gone, so
// tell the user and route them to the login prompt.
func (a *App) SessionExpired(ctx context.Context) {
	a.setUserName("")
	a.loginRequested.Store(true)
	printlnFn("Your session has expired. Please log in again.")
}

// consumeLoginRequest reports whether a login prompt is pending and clears it.
func (a *App) consumeLoginRequest() bool {
	return a.loginRequested.Swap(false)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), fmt.Sprintf("switched to %s mode", mode))
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases local storage.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	st, err := a.authService.Status(context.Background())
	return err == nil && st.LoggedIn
}

// StartOnlineStatusWatcher pings the backend every interval and keeps the
// prompt's online/offline indicator current. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
