package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/store"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

const (
	getRecordByIDQuery = `SELECT id, name FROM workspaces WHERE id = ?`

	searchRecordIDsQuery = `
		SELECT id
		FROM workspaces
		WHERE id > 0 AND name LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY id
		LIMIT ?
	`
)

// RecordStore implements store.RecordStore on SQLite.
type RecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates a RecordStore over db. If logger is nil, the default
// logger is used.
func NewRecordStore(db store.DBTX, logger *slog.Logger) *RecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store"), slog.String("driver", DriverName)),
	}
}

// DSN returns the driver connection string for the database file at path.
func DSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: url.Values{"_pragma": {"busy_timeout(5000)"}}.Encode(),
	}
	return u.String()
}

// Open opens a SQLite database at path with a busy timeout so concurrent
// readers do not fail on a locked database file.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// GetByID implements store.RecordStore.GetByID.
func (s *RecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	var (
		rowID int64
		name  string
	)
	err := s.db.QueryRowContext(ctx, getRecordByIDQuery, id).Scan(&rowID, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRecordNotFound
		}
		return nil, store.NewStoreError("workspace", "get", "query failed", mapError(err))
	}

	record, err := domain.NewRecord(rowID, name)
	if err != nil {
		return nil, store.NewStoreError("workspace", "get", "invalid row", errors.Join(store.ErrInvalidEntity, err))
	}
	return record, nil
}

// SearchIDsByName implements store.RecordStore.SearchIDsByName.
func (s *RecordStore) SearchIDsByName(ctx context.Context, query string, limit int) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, searchRecordIDsQuery, store.EscapeLike(query), limit)
	if err != nil {
		return nil, store.NewStoreError("workspace", "search", "query failed", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("workspace", "search", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("workspace", "search", "iteration failed", mapError(err))
	}

	log.Debug("workspace search completed",
		slog.Int("limit", limit),
		slog.Int("result_count", len(ids)))
	return ids, nil
}

func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}
