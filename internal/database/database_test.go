package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	insert := func(ctx context.Context, tx DBTX, id string) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO events (id, type, level, message, created_at) VALUES (?, 'test', 'info', 'm', CURRENT_TIMESTAMP)", id)
		return err
	}

	require.NoError(t, WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		return insert(ctx, tx, "committed")
	}))

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		if err := insert(ctx, tx, "rolled-back"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestConstraintViolations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	insertUser := func(id, email string) error {
		_, err := db.ExecContext(ctx,
			"INSERT INTO users (id, name, email, password_hash, avatar, created_at) VALUES (?, 'n', ?, 'h', '', CURRENT_TIMESTAMP)",
			id, email)
		return err
	}
	require.NoError(t, insertUser("u1", "a@example.com"))

	err := insertUser("u2", "a@example.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx,
		"INSERT INTO profiles (id, user_id, status, created_at) VALUES ('p1', 'ghost', 'Dev', CURRENT_TIMESTAMP)")
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed")))
}
