// Package cli provides the interactive buildtrack command-line client.
//
// It wires configuration, local token storage, the authenticated API client
// and an interactive REPL. The REPL hosts the session boundary: when the
// client gives up on a session it clears the tokens and calls
// App.SessionExpired, which prints a notice and sends the user back to the
// login prompt before the next command.
//
// Key features:
//   - Register / Login / Logout / whoami
//   - Session status from the stored access token
//   - Raw API calls (get, post, put, patch, delete)
//   - Request and refresh counters (stats)
//   - Online/offline indicator driven by a background health check
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
