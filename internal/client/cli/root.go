package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus builds the prompt status: the signed-in user's email plus the
// active selection, e.g. "(ada@example.com doc:d1)".
func (a *App) getStatus() string {
	s := ""
	if u := a.state.User(); u != nil {
		s = u.Email
	}
	if id := a.state.ActiveConversationID(); id != "" {
		s += " chat:" + shortID(id)
	} else if id := a.state.ActiveDocumentID(); id != "" {
		s += " doc:" + shortID(id)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to askpdf CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
