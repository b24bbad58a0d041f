package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/workspace-api/internal/store"
)

// PostgreSQL error codes
const (
	// connectionExceptionClass is the SQLSTATE class for connection failures
	connectionExceptionClass = "08"
	// queryCanceledCode is raised when a statement is cancelled or times out server side
	queryCanceledCode = "57014"
	// adminShutdownCode is raised when the server is shutting down
	adminShutdownCode = "57P01"
	// tooManyConnectionsCode is raised when the server refuses new connections
	tooManyConnectionsCode = "53300"
	// undefinedTableCode is raised when the schema has not been migrated
	undefinedTableCode = "42P01"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, connectionExceptionClass),
			pgErr.Code == queryCanceledCode,
			pgErr.Code == adminShutdownCode,
			pgErr.Code == tooManyConnectionsCode:
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		case pgErr.Code == undefinedTableCode:
			return fmt.Errorf("schema not migrated (%s): %w", pgErr.TableName, err)
		}
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsUnavailable reports whether err means the database could not serve the query.
func IsUnavailable(err error) bool {
	return errors.Is(MapError(err), store.ErrUnavailable)
}
