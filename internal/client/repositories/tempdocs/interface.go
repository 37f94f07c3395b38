package tempdocs

import (
	"context"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Repository is the pending-documents partition of the local mirror store.
// It holds uploaded PDF payloads (sealed at rest) until the backend reports
// the document processed, at which point the record moves to the finalized
// documents partition and is deleted here.
type Repository interface {
	// Add fails with common.ErrorDuplicateKey when the id already exists.
	Add(ctx context.Context, d *models.TempDocument) error

	// Get returns (nil, nil) when the id is unknown.
	Get(ctx context.Context, id string) (*models.TempDocument, error)

	// GetAll returns every pending document. Order is unspecified.
	GetAll(ctx context.Context) ([]*models.TempDocument, error)

	// Delete removes the record; unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
}
