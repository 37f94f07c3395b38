package metadata

import "context"

// Repository is a small key/value partition for client housekeeping data:
// the at-rest sealing secret and salt, and similar per-install values.
type Repository interface {
	// Get returns the value, or (nil, nil) when the key is unknown.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts the value for the key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key; unknown keys are a no-op.
	Delete(ctx context.Context, key string) error

	// Clear wipes the whole partition.
	Clear(ctx context.Context) error
}
