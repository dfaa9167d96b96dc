// Package client contains the client-side building blocks for talking to the
// buildtrack backend.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface): Do plus the auth
//     endpoints Login, Register, Logout, Me and Ping.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that attaches
//     the stored access token as a bearer credential, refreshes it once on a
//     401, retries the request once and normalizes failures.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite database that backs session.SQLiteStore.
//
// # Request lifecycle
//
//	send with current access token
//	  └─ not 401 → return body, or *APIError if status ≥ 400 / success falsy
//	  └─ 401     → Refresh (once, shared between concurrent callers)
//	                 ├─ ok   → resend once with new token; its result is final
//	                 └─ fail → clear tokens, run session-expired handler,
//	                           return error matching ErrSessionExpired
//
// # Error Handling
//
// Conditions are exposed as sentinels that callers match with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrSessionExpired, ErrNoRefreshToken,
// ErrRefreshRejected, ErrUnexpectedBody. Backend failures are *APIError
// values carrying message, status and raw body; use errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; WithTimeout adds a per-round-trip
// deadline.
package client
