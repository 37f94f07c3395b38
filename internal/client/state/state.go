// Package state holds the client's observable session state: the signed-in
// user, the conversation mirror loaded into memory, and the active
// conversation/document selection. All state lives in one explicit object
// passed to whoever needs it; there are no package-level singletons.
package state

import (
	"sort"
	"sync"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Event names a slice of state that changed. Subscribers receive the event
// after the mutation is visible to readers.
type Event string

const (
	EventUser          Event = "user"
	EventConversations Event = "conversations"
	EventSelection     Event = "selection"
)

// AppState is safe for concurrent use. Conversations handed out by getters
// are owned by the state; callers mutate them only through the mutator
// methods so subscribers observe every change.
type AppState struct {
	mu sync.RWMutex

	user                 *models.User
	conversations        map[string]*models.Conversation
	activeConversationID string
	activeDocumentID     string

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func New() *AppState {
	return &AppState{
		conversations: make(map[string]*models.Conversation),
		subs:          make(map[int]func(Event)),
	}
}

// Subscribe registers a listener invoked synchronously on every change.
// The returned function removes the subscription.
func (s *AppState) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *AppState) notify(ev Event) {
	s.subMu.Lock()
	listeners := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *AppState) SetUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.notify(EventUser)
}

func (s *AppState) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ReplaceConversations swaps the whole in-memory mirror, e.g. after loading
// from the local store or finishing a sync.
func (s *AppState) ReplaceConversations(convs []*models.Conversation) {
	s.mu.Lock()
	s.conversations = make(map[string]*models.Conversation, len(convs))
	for _, c := range convs {
		s.conversations[c.ID] = c
	}
	s.mu.Unlock()
	s.notify(EventConversations)
}

func (s *AppState) UpsertConversation(c *models.Conversation) {
	s.mu.Lock()
	s.conversations[c.ID] = c
	s.mu.Unlock()
	s.notify(EventConversations)
}

func (s *AppState) Conversation(id string) *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversations[id]
}

// Conversations returns the mirror ordered by UpdatedAt, newest first.
func (s *AppState) Conversations() []*models.Conversation {
	s.mu.RLock()
	result := make([]*models.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		result = append(result, c)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result
}

// SetSelection records the active conversation and document. Either id may be
// empty meaning "none".
func (s *AppState) SetSelection(conversationID, documentID string) {
	s.mu.Lock()
	s.activeConversationID = conversationID
	s.activeDocumentID = documentID
	s.mu.Unlock()
	s.notify(EventSelection)
}

func (s *AppState) SetActiveConversation(id string) {
	s.mu.Lock()
	s.activeConversationID = id
	s.mu.Unlock()
	s.notify(EventSelection)
}

func (s *AppState) SetActiveDocument(id string) {
	s.mu.Lock()
	s.activeDocumentID = id
	s.mu.Unlock()
	s.notify(EventSelection)
}

func (s *AppState) ActiveConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeConversationID
}

func (s *AppState) ActiveDocumentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeDocumentID
}

// Reset drops everything, e.g. on logout.
func (s *AppState) Reset() {
	s.mu.Lock()
	s.user = nil
	s.conversations = make(map[string]*models.Conversation)
	s.activeConversationID = ""
	s.activeDocumentID = ""
	s.mu.Unlock()

	s.notify(EventUser)
	s.notify(EventConversations)
	s.notify(EventSelection)
}
