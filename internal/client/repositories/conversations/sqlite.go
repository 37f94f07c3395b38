package conversations

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

// SQLiteRepository stores conversations as JSON documents keyed by id.
// The updated_at column mirrors the record's timestamp so the sync watermark
// can be computed without decoding every row.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func encode(c *models.Conversation) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode conversation %s: %w", c.ID, err)
	}
	return string(b), nil
}

func decode(data string) (*models.Conversation, error) {
	c := &models.Conversation{}
	if err := json.Unmarshal([]byte(data), c); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return c, nil
}

func upsert(ctx context.Context, db dbx.DBTX, c *models.Conversation) error {
	data, err := encode(c)
	if err != nil {
		return err
	}

	query := `INSERT INTO conversations (id, data, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data,
				updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, c.ID, data, c.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Add(ctx context.Context, c *models.Conversation) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM conversations WHERE id=?`, c.ID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check conversation id: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("conversation %s: %w", c.ID, common.ErrorDuplicateKey)
		}

		data, err := encode(c)
		if err != nil {
			return err
		}
		query := `INSERT INTO conversations (id, data, updated_at) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, c.ID, data, c.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Update(ctx context.Context, c *models.Conversation) error {
	return upsert(ctx, r.db, c)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM conversations WHERE id=?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return decode(data)
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM conversations`)
	if err != nil {
		return nil, fmt.Errorf("failed to select conversations: %w", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		c, err := decode(data)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) BatchUpsert(ctx context.Context, recs []*models.Conversation) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, c := range recs {
			if err := upsert(ctx, tx, c); err != nil {
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}
	return nil
}
