package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can write freely without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// InsertWorkspaces seeds the workspaces table with the given id→name rows.
func InsertWorkspaces(t *testing.T, tx *sql.Tx, rows map[int64]string) {
	t.Helper()

	for id, name := range rows {
		_, err := tx.ExecContext(context.Background(),
			"INSERT INTO workspaces (id, name) VALUES ($1, $2)", id, name)
		require.NoError(t, err, "failed to insert workspace %d", id)
	}
}
