package models

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation is a quoted excerpt plus source locator attached to an assistant
// message, indicating provenance within the uploaded document.
type Citation struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Message is immutable once created. The id is server-assigned; client-side
// temporary correlation ids are never persisted.
type Message struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Citations      []Citation `json:"citations,omitempty"`
	ConversationID string     `json:"conversation_id"`
	Role           Role       `json:"role"`
	Timestamp      time.Time  `json:"time_stamp"`
}

// Conversation mirrors a server conversation record. Messages keep insertion
// order (chronological); message ids are unique within a conversation.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Documents []string  `json:"documents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplySummary overlays the non-list fields of a server summary record onto c.
// Summary/list endpoints return conversation metadata without full message
// bodies, so the local message and document lists are left untouched; a naive
// overwrite would silently truncate history.
func (c *Conversation) ApplySummary(remote *Conversation) {
	c.Title = remote.Title
	if !remote.CreatedAt.IsZero() {
		c.CreatedAt = remote.CreatedAt
	}
	if !remote.UpdatedAt.IsZero() {
		c.UpdatedAt = remote.UpdatedAt
	}
}

// AppendMessages appends the given messages, skipping any whose id is already
// present. Previously known messages are never dropped or reordered.
func (c *Conversation) AppendMessages(msgs ...Message) {
	known := make(map[string]struct{}, len(c.Messages))
	for _, m := range c.Messages {
		known[m.ID] = struct{}{}
	}
	for _, m := range msgs {
		if _, ok := known[m.ID]; ok {
			continue
		}
		known[m.ID] = struct{}{}
		c.Messages = append(c.Messages, m)
	}
}

// AddDocument records a document id on the conversation if not already present.
func (c *Conversation) AddDocument(docID string) {
	for _, id := range c.Documents {
		if id == docID {
			return
		}
	}
	c.Documents = append(c.Documents, docID)
}
