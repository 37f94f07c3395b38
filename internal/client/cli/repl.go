package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Wait(ctx context.Context, docID string) error
	Pending(ctx context.Context) error
	Send(ctx context.Context, text string) error
	List(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) error
	Sync(ctx context.Context) error
	Export(ctx context.Context, docID string) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the askpdf CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, context cancellation, or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                  — show available commands
//	  - login                 — sign in with an OAuth provider
//	  - exit | quit           — leave the program
//
//	Logged in:
//	  - help                  — show available commands
//	  - whoami                — show the signed-in user
//	  - upload <path>         — upload a PDF and select it
//	  - wait [docID]          — wait for document processing
//	  - pending               — list uploads awaiting processing
//	  - send <text>           — send a message to the active chat/document
//	  - list                  — list conversations
//	  - open <id>             — open a conversation (full fetch)
//	  - title <id> <text>     — rename a conversation
//	  - sync                  — synchronize the conversation mirror
//	  - export <docID>        — write a cached PDF to the downloads dir
//	  - logout                — sign out
//	  - reset                 — destroy the local store
//	  - exit | quit           — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		printlnFn(fmt.Sprintf("askpdf %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, upload, wait, pending, send, (l)ist, open, title, sync, export, logout, reset, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path-to-pdf>")
				continue
			}
			_ = a.Upload(ctx, args[0])

		case "wait":
			docID := ""
			if len(args) > 0 {
				docID = args[0]
			}
			_ = a.Wait(ctx, docID)

		case "pending":
			_ = a.Pending(ctx)

		case "send":
			if len(args) == 0 {
				printlnFn("Usage: send <message text>")
				continue
			}
			_ = a.Send(ctx, strings.Join(args, " "))

		case "l", "list":
			_ = a.List(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <conversation-id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "title":
			if len(args) < 2 {
				printlnFn("Usage: title <conversation-id> <new title>")
				continue
			}
			_ = a.Rename(ctx, args[0], strings.Join(args[1:], " "))

		case "sync":
			_ = a.Sync(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <doc-id>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
