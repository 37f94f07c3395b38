package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/dbx"
)

// SQLiteRepository stores finalized document records as JSON keyed by id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func encode(d *models.Document) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode document %s: %w", d.ID, err)
	}
	return string(b), nil
}

func decode(data string) (*models.Document, error) {
	d := &models.Document{}
	if err := json.Unmarshal([]byte(data), d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return d, nil
}

func upsert(ctx context.Context, db dbx.DBTX, d *models.Document) error {
	data, err := encode(d)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (id, data, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data,
				updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, d.ID, data, d.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Add(ctx context.Context, d *models.Document) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM documents WHERE id=?`, d.ID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check document id: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("document %s: %w", d.ID, common.ErrorDuplicateKey)
		}

		data, err := encode(d)
		if err != nil {
			return err
		}
		query := `INSERT INTO documents (id, data, updated_at) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, d.ID, data, d.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Update(ctx context.Context, d *models.Document) error {
	return upsert(ctx, r.db, d)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE id=?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return decode(data)
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		d, err := decode(data)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) BatchUpsert(ctx context.Context, recs []*models.Document) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, d := range recs {
			if err := upsert(ctx, tx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorFailedBatch, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}
