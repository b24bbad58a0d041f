package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/workspace-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
		expectedMsg   string
	}{
		{
			name: "nil_error",
			err:  nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name:          "wrapped_no_rows",
			err:           fmt.Errorf("scan: %w", sql.ErrNoRows),
			expectedError: store.ErrNotFound,
		},
		{
			name:          "context_deadline",
			err:           context.DeadlineExceeded,
			expectedError: store.ErrUnavailable,
		},
		{
			name:          "connection_exception",
			err:           &pgconn.PgError{Code: "08006"},
			expectedError: store.ErrUnavailable,
		},
		{
			name:          "query_canceled",
			err:           &pgconn.PgError{Code: queryCanceledCode},
			expectedError: store.ErrUnavailable,
		},
		{
			name:          "too_many_connections",
			err:           &pgconn.PgError{Code: tooManyConnectionsCode},
			expectedError: store.ErrUnavailable,
		},
		{
			name:        "undefined_table",
			err:         &pgconn.PgError{Code: undefinedTableCode, TableName: "workspaces"},
			expectedMsg: "schema not migrated (workspaces)",
		},
		{
			name:        "generic_error",
			err:         errors.New("something odd"),
			expectedMsg: "something odd",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)

			if tc.err == nil {
				assert.NoError(t, mapped)
				return
			}

			assert.ErrorIs(t, mapped, tc.err, "original error should stay in the chain")
			if tc.expectedError != nil {
				assert.ErrorIs(t, mapped, tc.expectedError)
			}
			if tc.expectedMsg != "" {
				assert.Contains(t, mapped.Error(), tc.expectedMsg)
			}
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(&pgconn.PgError{Code: adminShutdownCode}))
	assert.True(t, IsUnavailable(context.Canceled))
	assert.False(t, IsUnavailable(sql.ErrNoRows))
	assert.False(t, IsUnavailable(nil))
}
