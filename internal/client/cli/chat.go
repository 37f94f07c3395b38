package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Send posts a message to the active conversation or document and prints the
// assistant's reply with its citations.
func (a *App) Send(ctx context.Context, text string) error {
	conv, err := a.convService.Send(ctx, text)
	if err != nil {
		log.Printf("Send failed: %s", err.Error())
		return err
	}

	if len(conv.Messages) > 0 {
		printMessage(conv.Messages[len(conv.Messages)-1])
	}
	return nil
}

// List prints the conversation mirror, newest first.
func (a *App) List(ctx context.Context) error {
	convs := a.state.Conversations()
	if len(convs) == 0 {
		fmt.Println("No conversations yet. Upload a PDF and send a message to start one.")
		return nil
	}

	for _, c := range convs {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %-40s  %d message(s)\n", shortID(c.ID), title, len(c.Messages))
	}
	return nil
}

// Open fetches the full conversation, selects it, and prints its history.
func (a *App) Open(ctx context.Context, id string) error {
	conv, err := a.convService.Fetch(ctx, id)
	if err != nil {
		log.Printf("Open failed: %s", err.Error())
		return err
	}

	a.state.SetActiveConversation(conv.ID)

	if conv.Title != "" {
		fmt.Println("== " + conv.Title + " ==")
	}
	for _, m := range conv.Messages {
		printMessage(m)
	}
	return nil
}

func (a *App) Rename(ctx context.Context, id, title string) error {
	if err := a.convService.Rename(ctx, id, title); err != nil {
		log.Printf("Rename failed: %s", err.Error())
		return err
	}
	fmt.Println("Renamed")
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if err := a.convService.Sync(ctx); err != nil {
		log.Printf("Sync failed: %s", err.Error())
		return err
	}
	fmt.Printf("Synced, %d conversation(s)\n", len(a.state.Conversations()))
	return nil
}

func printMessage(m models.Message) {
	prefix := "you"
	if m.Role == models.RoleAssistant {
		prefix = "assistant"
	}
	fmt.Printf("[%s] %s\n", prefix, m.Text)
	for _, c := range m.Citations {
		fmt.Printf("    > %q (%s)\n", c.Text, c.Source)
	}
}
