package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	consumeLoginRequest() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Stats(ctx context.Context) error
	Request(ctx context.Context, method string, args []string) error
}

// runREPL starts a simple read–eval–print loop for the buildtrack CLI.
//
// Before every prompt it checks whether the session ended; if so the user
// is taken to the login prompt first.
//
//	Not logged in:
//	  help, register, login, status, stats, exit | quit
//
//	Logged in:
//	  help, whoami, status, stats, logout,
//	  get | delete <path>,
//	  post | put | patch <path> [json],
//	  exit | quit
//
// reader is the same one the prompts read from, so commands and their
// answers can be piped in together.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if a.consumeLoginRequest() {
			reportError(a.Login(ctx))
		}

		printlnFn(fmt.Sprintf("bt %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, status, stats, get, post, put, patch, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, stats, exit")
			}

		case "register":
			reportError(a.Register(ctx))

		case "login":
			reportError(a.Login(ctx))

		case "logout":
			reportError(a.Logout(ctx))

		case "whoami":
			reportError(a.WhoAmI(ctx))

		case "status":
			reportError(a.Status(ctx))

		case "stats":
			reportError(a.Stats(ctx))

		case "get", "post", "put", "patch", "delete":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <path>", cmd))
				continue
			}
			reportError(a.Request(ctx, strings.ToUpper(cmd), args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// reportError prints a command failure. An expired session was already
// announced by the session boundary, so it is not repeated.
func reportError(err error) {
	if err == nil || errors.Is(err, client.ErrSessionExpired) {
		return
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		printlnFn(fmt.Sprintf("error (%d): %s", apiErr.StatusCode, apiErr.Message))
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("server unavailable, try again later")
	default:
		printlnFn("error:", err)
	}
}

// requestMethods lists the HTTP methods the REPL can send and whether each
// takes a JSON body.
var requestMethods = map[string]bool{
	http.MethodGet:    false,
	http.MethodDelete: false,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
}
