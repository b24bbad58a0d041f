package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/store"
)

const (
	getRecordByIDQuery = `
		SELECT id, name
		FROM workspaces
		WHERE id = $1
	`

	// The pattern is assembled server side from a bound parameter; the
	// caller's query text is never concatenated into the statement.
	searchRecordIDsQuery = `
		SELECT id
		FROM workspaces
		WHERE id > 0 AND name LIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY id
		LIMIT $2
	`
)

// PostgresRecordStore implements the store.RecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecordStore creates a new PostgreSQL implementation of the RecordStore interface.
// It accepts a database connection or transaction that is owned by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresRecordStore(db store.DBTX, logger *slog.Logger) *PostgresRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store")),
	}
}

// Ensure PostgresRecordStore implements store.RecordStore interface
var _ store.RecordStore = (*PostgresRecordStore)(nil)

// GetByID implements store.RecordStore.GetByID
// Returns store.ErrRecordNotFound if the record does not exist.
func (s *PostgresRecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	var (
		rowID int64
		name  string
	)
	err := s.db.QueryRowContext(ctx, getRecordByIDQuery, id).Scan(&rowID, &name)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, store.ErrRecordNotFound
		}
		return nil, store.NewStoreError("workspace", "get", "query failed", mapped)
	}

	record, err := domain.NewRecord(rowID, name)
	if err != nil {
		return nil, store.NewStoreError("workspace", "get", "invalid row", errors.Join(store.ErrInvalidEntity, err))
	}
	return record, nil
}

// SearchIDsByName implements store.RecordStore.SearchIDsByName
func (s *PostgresRecordStore) SearchIDsByName(ctx context.Context, query string, limit int) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, searchRecordIDsQuery, store.EscapeLike(query), limit)
	if err != nil {
		return nil, store.NewStoreError("workspace", "search", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("workspace", "search", "scan failed", MapError(err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("workspace", "search", "iteration failed", MapError(err))
	}

	log.Debug("workspace search completed",
		slog.Int("limit", limit),
		slog.Int("result_count", len(ids)))
	return ids, nil
}
