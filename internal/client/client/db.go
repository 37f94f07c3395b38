package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/vkazlou/askpdf/internal/client/migrations"
	"github.com/vkazlou/askpdf/internal/client/repositories/conversations"
	"github.com/vkazlou/askpdf/internal/client/repositories/documents"
	"github.com/vkazlou/askpdf/internal/client/repositories/metadata"
	"github.com/vkazlou/askpdf/internal/client/repositories/tempdocs"

	_ "modernc.org/sqlite"
)

// Repositories bundles the mirror store partitions over one SQLite handle.
type Repositories struct {
	DB   *sql.DB
	path string

	Metadata      metadata.Repository
	Conversations conversations.Repository
	Documents     documents.Repository
	TempDocuments tempdocs.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating on first use) the local mirror store and
// applies migrations. Opening is idempotent: migrations already applied are
// skipped. When the host environment cannot provide persistent storage the
// call fails with ErrStorageUnavailable.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	// single local writer; also keeps :memory: stores on one connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &Repositories{
		DB:            db,
		path:          dsn,
		Metadata:      metadata.NewSQLiteRepository(db),
		Conversations: conversations.NewSQLiteRepository(db),
		Documents:     documents.NewSQLiteRepository(db),
		TempDocuments: tempdocs.NewSQLiteRepository(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Destroy irrecoverably deletes the whole store: the handle is closed and
// the database file removed. Used only by explicit reset flows.
func (r *Repositories) Destroy() error {
	if err := r.DB.Close(); err != nil {
		return err
	}
	if r.path == "" || r.path == ":memory:" {
		return nil
	}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store: %w", err)
	}
	return nil
}
