package conversations

import (
	"context"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Repository is the conversations partition of the local mirror store.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Add inserts a new conversation. It fails with common.ErrorDuplicateKey
	// if a record with the same id already exists.
	Add(ctx context.Context, c *models.Conversation) error

	// Update upserts: creates the record if absent, overwrites it if present.
	Update(ctx context.Context, c *models.Conversation) error

	// Get returns the conversation or (nil, nil) when the id is unknown.
	// A missing key is not an error.
	Get(ctx context.Context, id string) (*models.Conversation, error)

	// GetAll returns every conversation in the partition. Order is unspecified.
	GetAll(ctx context.Context) ([]*models.Conversation, error)

	// BatchUpsert applies Update semantics to every record inside a single
	// transaction. If any write fails the whole batch fails with
	// common.ErrorFailedBatch and no partial state is visible afterwards.
	BatchUpsert(ctx context.Context, recs []*models.Conversation) error

	// Delete removes the record. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
