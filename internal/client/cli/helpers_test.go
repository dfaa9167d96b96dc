package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
	"github.com/dmitrijs2005/buildtrack/internal/client/services"
	"github.com/dmitrijs2005/buildtrack/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// captureOutput redirects printlnFn for the duration of the test.
func captureOutput(t *testing.T) *output {
	t.Helper()
	out := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out.mu.Lock()
		defer out.mu.Unlock()
		line := strings.TrimRight(fmt.Sprintln(a...), "\n")
		out.lines = append(out.lines, line)
		return len(line), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return out
}

type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func (o *output) text() string {
	return strings.Join(o.all(), "\n")
}

// stubInputs answers text and choice prompts from answers in order and the
// password prompt with password. An empty choice answer picks the default.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGC, origGP := getSimpleText, getChoice, getPassword
	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getChoice = func(_ *bufio.Reader, _ string, _ []string, def string, _ io.Writer) (string, error) {
		a, err := next()
		if err != nil || a == "" {
			return def, err
		}
		return strings.ToLower(a), nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getChoice = origGC
		getPassword = origGP
	})
}

type fakeAuth struct {
	loginUser  *client.User
	loginErr   error
	loginEmail string
	loginPass  string

	regReq  client.RegisterRequest
	regUser *client.User
	regErr  error

	logoutCalled bool
	logoutErr    error

	me    *client.User
	meErr error

	pingErr error

	status    services.SessionStatus
	statusErr error
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*client.User, error) {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.status.LoggedIn = true
	return f.loginUser, nil
}

func (f *fakeAuth) Register(_ context.Context, r client.RegisterRequest) (*client.User, error) {
	f.regReq = r
	return f.regUser, f.regErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil {
		f.status = services.SessionStatus{}
	}
	return f.logoutErr
}

func (f *fakeAuth) WhoAmI(context.Context) (*client.User, error) { return f.me, f.meErr }

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

func (f *fakeAuth) Status(context.Context) (services.SessionStatus, error) {
	return f.status, f.statusErr
}

type fakeRequester struct {
	method string
	path   string
	body   any

	resp *client.Response
	err  error
}

func (f *fakeRequester) Do(_ context.Context, method, path string, body any) (*client.Response, error) {
	f.method, f.path, f.body = method, path, body
	return f.resp, f.err
}

func newTestApp(auth services.AuthService, api requester, input string) *App {
	return &App{
		authService: auth,
		api:         api,
		gatherer:    prometheus.NewRegistry(),
		log:         logging.Nop(),
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         io.Discard,
	}
}
