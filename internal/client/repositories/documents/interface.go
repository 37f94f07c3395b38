package documents

import (
	"context"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Repository is the finalized-documents partition of the local mirror store.
// Same contract as the conversations partition: Add fails on a duplicate id,
// Update upserts, Get returns (nil, nil) for an unknown id, Delete is a no-op
// when absent, and BatchUpsert is a single all-or-nothing transaction.
type Repository interface {
	Add(ctx context.Context, d *models.Document) error
	Update(ctx context.Context, d *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	GetAll(ctx context.Context) ([]*models.Document, error)
	BatchUpsert(ctx context.Context, recs []*models.Document) error
	Delete(ctx context.Context, id string) error
}
