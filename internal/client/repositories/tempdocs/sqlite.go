package tempdocs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, d *models.TempDocument) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM temp_documents WHERE id=?`, d.ID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check temp document id: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("temp document %s: %w", d.ID, common.ErrorDuplicateKey)
		}

		query := `INSERT INTO temp_documents (id, file_name, payload, nonce, created_at) VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query,
			d.ID, d.FileName, d.Payload, d.Nonce, d.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to insert temp document: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.TempDocument, error) {
	d := &models.TempDocument{}
	var createdAt string

	query := `SELECT id, file_name, payload, nonce, created_at FROM temp_documents WHERE id=?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.FileName, &d.Payload, &d.Nonce, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get temp document %s: %w", id, err)
	}

	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at for temp document %s: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.TempDocument, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, file_name, payload, nonce, created_at FROM temp_documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to select temp documents: %w", err)
	}
	defer rows.Close()

	var result []*models.TempDocument
	for rows.Next() {
		d := &models.TempDocument{}
		var createdAt string
		if err := rows.Scan(&d.ID, &d.FileName, &d.Payload, &d.Nonce, &createdAt); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for temp document %s: %w", d.ID, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM temp_documents WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete temp document %s: %w", id, err)
	}
	return nil
}
