// Package client contains client-side building blocks for askpdf.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk to
//     the askpdf backend: OAuth authorize/exchange, session identity and
//     refresh, incremental conversation sync, message send, and
//     upload-session/status endpoints.
//  2. A concrete HTTP implementation (see HTTPClient) that carries the
//     cookie-based session, transparently refreshes an expired session and
//     retries the original request exactly once, and decodes responses into
//     typed models at the boundary.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring the SQLite mirror store and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrDecode,
// ErrStorageUnavailable.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
package client
