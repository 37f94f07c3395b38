package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/client/repositories/conversations"
	"github.com/vkazlou/askpdf/internal/client/state"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/logging"
)

// ConversationService owns the conversation mirror: loading it into app
// state, incremental sync against the server, sending messages, and the merge
// rules that keep locally held messages and documents from being dropped.
type ConversationService interface {
	Load(ctx context.Context) error
	Sync(ctx context.Context) error
	Send(ctx context.Context, text string) (*models.Conversation, error)
	Fetch(ctx context.Context, id string) (*models.Conversation, error)
	Rename(ctx context.Context, id, title string) error
}

type conversationService struct {
	client   client.Client
	convRepo conversations.Repository
	state    *state.AppState
	log      logging.Logger

	// serializes sync invocations so two concurrent triggers cannot
	// interleave their read-merge-write cycles
	syncMu sync.Mutex
}

func NewConversationService(client client.Client, convRepo conversations.Repository, st *state.AppState, log logging.Logger) ConversationService {
	return &conversationService{client: client, convRepo: convRepo, state: st, log: log}
}

// Load publishes the cached mirror into app state without touching the
// network. Called at startup so the UI renders instantly while Sync runs.
func (s *conversationService) Load(ctx context.Context) error {
	cached, err := s.convRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load mirror: %w", err)
	}
	s.state.ReplaceConversations(cached)
	return nil
}

// Sync runs one incremental sync cycle:
//
//  1. publish cached data optimistically,
//  2. compute the watermark (max UpdatedAt across the cache, or the epoch
//     for a fresh install),
//  3. fetch records changed since the watermark,
//  4. merge each changed record over its local counterpart, overlaying the
//     summary fields while keeping every locally known message and document,
//  5. persist the merged set in one atomic batch and republish.
//
// Merging never reduces the local message or document count.
func (s *conversationService) Sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	cached, err := s.convRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load mirror: %w", err)
	}
	s.state.ReplaceConversations(cached)

	var watermark time.Time
	byID := make(map[string]*models.Conversation, len(cached))
	for _, c := range cached {
		byID[c.ID] = c
		if c.UpdatedAt.After(watermark) {
			watermark = c.UpdatedAt
		}
	}

	remote, err := s.client.ConversationsSince(ctx, watermark)
	if err != nil {
		return fmt.Errorf("fetch changes: %w", err)
	}
	if len(remote) == 0 {
		return nil
	}

	merged := make([]*models.Conversation, 0, len(remote))
	for _, r := range remote {
		local, ok := byID[r.ID]
		if !ok {
			merged = append(merged, r)
			continue
		}
		local.ApplySummary(r)
		local.AppendMessages(r.Messages...)
		for _, docID := range r.Documents {
			local.AddDocument(docID)
		}
		merged = append(merged, local)
	}

	if err := s.convRepo.BatchUpsert(ctx, merged); err != nil {
		return fmt.Errorf("persist changes: %w", err)
	}

	all, err := s.convRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reload mirror: %w", err)
	}
	s.state.ReplaceConversations(all)

	s.log.Debug(ctx, "sync complete", "changed", len(remote), "total", len(all))
	return nil
}

// Send posts one user message against the active selection. With neither an
// active conversation nor an active document there is nothing to send to and
// no network call is made. The server response carries the stored user echo
// and the assistant reply; their server-assigned ids are authoritative and
// the temporary correlation id is discarded.
func (s *conversationService) Send(ctx context.Context, text string) (*models.Conversation, error) {
	convID := s.state.ActiveConversationID()
	docID := s.state.ActiveDocumentID()
	if convID == "" && docID == "" {
		return nil, common.ErrorNoSendTarget
	}

	res, err := s.client.SendMessage(ctx, client.SendMessageRequest{
		TempID:         uuid.NewString(),
		ConversationID: convID,
		Message:        text,
		FileID:         docID,
	})
	if err != nil {
		return nil, err
	}

	conv, err := s.convRepo.Get(ctx, res.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &models.Conversation{ID: res.ConversationID, CreatedAt: res.CreatedAt}
	}

	conv.AppendMessages(res.UserMessage, res.AssistantMessage)
	if res.FileID != "" {
		conv.AddDocument(res.FileID)
	}
	for _, ts := range []time.Time{res.CreatedAt, res.UserMessage.Timestamp, res.AssistantMessage.Timestamp} {
		if ts.After(conv.UpdatedAt) {
			conv.UpdatedAt = ts
		}
	}

	if err := s.convRepo.Update(ctx, conv); err != nil {
		return nil, fmt.Errorf("persist conversation: %w", err)
	}

	s.state.UpsertConversation(conv)
	s.state.SetActiveConversation(conv.ID)
	return conv, nil
}

// Fetch retrieves the full conversation record and merges it over the local
// copy by message-id union, so a refetch can only add messages.
func (s *conversationService) Fetch(ctx context.Context, id string) (*models.Conversation, error) {
	remote, err := s.client.Conversation(ctx, id)
	if err != nil {
		return nil, err
	}

	local, err := s.convRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if local == nil {
		local = remote
	} else {
		local.ApplySummary(remote)
		local.AppendMessages(remote.Messages...)
		for _, docID := range remote.Documents {
			local.AddDocument(docID)
		}
	}

	if err := s.convRepo.Update(ctx, local); err != nil {
		return nil, fmt.Errorf("persist conversation: %w", err)
	}

	s.state.UpsertConversation(local)
	return local, nil
}

// Rename updates the title server-side and overlays the result locally,
// leaving the message and document lists untouched.
func (s *conversationService) Rename(ctx context.Context, id, title string) error {
	remote, err := s.client.UpdateConversationTitle(ctx, id, title)
	if err != nil {
		return err
	}

	local, err := s.convRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if local == nil {
		local = remote
	} else {
		local.ApplySummary(remote)
	}

	if err := s.convRepo.Update(ctx, local); err != nil {
		return fmt.Errorf("persist conversation: %w", err)
	}

	s.state.UpsertConversation(local)
	return nil
}
