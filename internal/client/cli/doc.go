// Package cli provides the interactive askpdf command-line client.
//
// It wires configuration, the local mirror store, API services, and an
// interactive REPL. Typical flow: sign in via an OAuth provider, upload a
// PDF, wait for processing, and chat about its contents.
//
// Key features:
//   - Login / Logout through a provider authorization URL and pasted callback
//   - Upload PDFs via presigned storage POSTs, with processing-status wait
//   - Send messages and read assistant replies with citations
//   - List / Open conversations from the offline-first local mirror
//   - Sync the mirror incrementally with the server
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
