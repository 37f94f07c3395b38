package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "store_secret", []byte{1, 2, 3}))

	got, err := r.Get(ctx, "store_secret")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// upsert overwrites
	require.NoError(t, r.Set(ctx, "store_secret", []byte{9}))
	got, err = r.Get(ctx, "store_secret")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got)
}

func TestGet_MissingKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a")) // no-op

	require.NoError(t, r.Clear(ctx))
	got, err := r.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}
