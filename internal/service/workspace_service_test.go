package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/notify"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/store"
	"github.com/phrazzld/workspace-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// storedNames is the fixture backing the mock repository.
var storedNames = map[int64]string{
	5:       "Case Template",
	6:       "Case Archive",
	7:       "Old Case",
	1015024: "Relativity Starter Template",
}

func record(id int64) *domain.Record {
	return &domain.Record{ID: id, Name: storedNames[id]}
}

// newTestService wires a service over a mock repository and returns the
// log recorder so tests can assert on emission.
func newTestService(
	t *testing.T,
	repo *MockRecordStore,
	opts Options,
) (WorkspaceService, *testutils.TestSlogHandler) {
	t.Helper()
	recorder := testutils.NewTestSlogHandler()
	svc, err := NewWorkspaceService(repo, nil, recorder.Logger(), opts)
	require.NoError(t, err)
	return svc, recorder
}

func TestNewWorkspaceService_NilRepository(t *testing.T) {
	svc, err := NewWorkspaceService(nil, nil, nil, Options{})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("existing id returns stored name", func(t *testing.T) {
		repo := new(MockRecordStore)
		repo.On("GetByID", mock.Anything, int64(1015024)).Return(record(1015024), nil)
		svc, recorder := newTestService(t, repo, Options{})

		rec, err := svc.Lookup(ctx, 1015024)

		require.NoError(t, err)
		assert.Equal(t, "Relativity Starter Template", rec.Name)
		assert.Equal(t, int64(1015024), rec.ID)
		assert.Empty(t, recorder.EntriesAtOrAbove(slog.LevelWarn))
		repo.AssertExpectations(t)
	})

	t.Run("missing id is NotFound naming the id", func(t *testing.T) {
		repo := new(MockRecordStore)
		repo.On("GetByID", mock.Anything, int64(999)).Return(nil, store.ErrRecordNotFound)
		svc, recorder := newTestService(t, repo, Options{})

		rec, err := svc.Lookup(ctx, 999)

		assert.Nil(t, rec)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "999")
		assert.Equal(t, 404, domain.KindOf(err).HTTPStatus())

		entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
		require.Len(t, entries, 1, "a failure is logged exactly once")
		assert.Equal(t, "workspace operation rejected", entries[0].Message())
		assert.Equal(t, "lookup", entries[0]["operation"])
		assert.Equal(t, "not_found", entries[0]["error_kind"])
	})

	t.Run("non-positive id is NotFound without store access", func(t *testing.T) {
		for _, id := range []int64{0, -1} {
			repo := new(MockRecordStore)
			svc, _ := newTestService(t, repo, Options{})

			_, err := svc.Lookup(ctx, id)

			assert.ErrorIs(t, err, domain.ErrNotFound)
			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		}
	})

	t.Run("store failure is Internal with generic message", func(t *testing.T) {
		cause := errors.New("dial tcp db.internal:5432: connection refused")
		repo := new(MockRecordStore)
		repo.On("GetByID", mock.Anything, int64(5)).
			Return(nil, store.NewStoreError("workspace", "get", "query failed", cause))
		svc, recorder := newTestService(t, repo, Options{})

		_, err := svc.Lookup(ctx, 5)

		require.ErrorIs(t, err, domain.ErrInternal)
		assert.Equal(t, "Failed to retrieve workspace.", err.Error())
		assert.ErrorIs(t, err, cause, "cause is kept for logging")

		svcErr, ok := domain.AsServiceError(err)
		require.True(t, ok)
		require.NotNil(t, svcErr.Diagnostic)
		assert.NotContains(t, svcErr.Diagnostic.Info, "db.internal")

		entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0].Level())
		assert.Equal(t, "workspace operation failed", entries[0].Message())
		assert.Equal(t, "lookup", entries[0]["operation"])
		assert.NotContains(t, entries[0]["cause"], "db.internal")
	})

	t.Run("uses the request logger from context", func(t *testing.T) {
		repo := new(MockRecordStore)
		repo.On("GetByID", mock.Anything, int64(6)).Return(nil, store.ErrRecordNotFound)
		svc, serviceRecorder := newTestService(t, repo, Options{})

		requestRecorder := testutils.NewTestSlogHandler()
		reqCtx := logger.WithLogger(ctx, requestRecorder.Logger().With("trace_id", "abc"))

		_, err := svc.Lookup(reqCtx, 6)

		require.Error(t, err)
		assert.Empty(t, serviceRecorder.Entries())
		entries := requestRecorder.EntriesAtOrAbove(slog.LevelWarn)
		require.Len(t, entries, 1)
		assert.Equal(t, "abc", entries[0]["trace_id"])
	})
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name       string
		req        domain.SearchRequest
		wantSubstr string
	}{
		{
			name:       "empty query",
			req:        domain.SearchRequest{Query: "", Limit: 10},
			wantSubstr: "cannot be empty",
		},
		{
			name:       "query over 50 characters",
			req:        domain.SearchRequest{Query: strings.Repeat("a", 51), Limit: 10},
			wantSubstr: "cannot be greater than 50 characters",
		},
		{
			name: "zero limit",
			req:  domain.SearchRequest{Query: "case", Limit: 0},
		},
		{
			name: "limit above maximum",
			req:  domain.SearchRequest{Query: "case", Limit: domain.MaxSearchLimit + 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRecordStore)
			svc, recorder := newTestService(t, repo, Options{})

			records, err := svc.Search(context.Background(), tc.req)

			assert.Nil(t, records)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.wantSubstr)
			repo.AssertNotCalled(t, "SearchIDsByName", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

			entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
			require.Len(t, entries, 1)
			assert.Equal(t, "validate", entries[0]["stage"])
		})
	}
}

func TestSearch_OversizedQueryLogIsBounded(t *testing.T) {
	repo := new(MockRecordStore)
	svc, recorder := newTestService(t, repo, Options{})

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		Query: strings.Repeat("x", 500000),
		Limit: 10,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Less(t, len(err.Error()), 200)

	entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
	require.Len(t, entries, 1)
	assert.Equal(t, "workspace operation rejected", entries[0].Message())
	assert.Equal(t, "search", entries[0]["operation"])
	logged, ok := entries[0]["error"].(string)
	require.True(t, ok)
	assert.Less(t, len(logged), 200)
	assert.Contains(t, logged, "cannot be greater than 50 characters")
}

func TestSearch_FiftyCharacterQueryIsAccepted(t *testing.T) {
	query := strings.Repeat("é", 50)
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, query, 10).Return([]int64{}, nil)
	svc, _ := newTestService(t, repo, Options{})

	records, err := svc.Search(context.Background(), domain.NewSearchRequest(query))

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestSearch_SkipsMissesWithoutReordering(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		repo := new(MockRecordStore)
		repo.On("SearchIDsByName", mock.Anything, "Case", 10).Return([]int64{5, 6, 7}, nil)
		repo.On("GetByID", mock.Anything, int64(5)).Return(record(5), nil)
		repo.On("GetByID", mock.Anything, int64(6)).Return(nil, store.ErrRecordNotFound)
		repo.On("GetByID", mock.Anything, int64(7)).Return(record(7), nil)
		svc, recorder := newTestService(t, repo, Options{EnrichConcurrency: concurrency})

		records, err := svc.Search(context.Background(), domain.NewSearchRequest("Case"))

		require.NoError(t, err, "concurrency %d", concurrency)
		assert.Equal(t, []domain.Record{*record(5), *record(7)}, records, "concurrency %d", concurrency)
		assert.Empty(t, recorder.EntriesAtOrAbove(slog.LevelWarn), "misses are not failures")
		repo.AssertExpectations(t)
	}
}

func TestSearch_ResultBoundedByLimitAndCandidates(t *testing.T) {
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, "Case", 2).Return([]int64{5, 6}, nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(record(5), nil)
	repo.On("GetByID", mock.Anything, int64(6)).Return(record(6), nil)
	svc, _ := newTestService(t, repo, Options{})

	records, err := svc.Search(context.Background(), domain.SearchRequest{Query: "Case", Limit: 2})

	require.NoError(t, err)
	assert.LessOrEqual(t, len(records), 2)
	assert.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, storedNames[rec.ID], rec.Name, "names are returned untransformed")
	}
}

func TestSearch_IsRepeatable(t *testing.T) {
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, "case", 5).Return([]int64{5, 7}, nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(record(5), nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(record(7), nil)
	svc, _ := newTestService(t, repo, Options{})
	req := domain.SearchRequest{Query: "case", Limit: 5}

	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearch_RepositoryFailure(t *testing.T) {
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, "case", 10).
		Return(nil, store.NewStoreError("workspace", "search", "query failed", store.ErrUnavailable))
	svc, recorder := newTestService(t, repo, Options{})

	records, err := svc.Search(context.Background(), domain.NewSearchRequest("case"))

	assert.Nil(t, records)
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "Failed to search workspaces.", err.Error())
	entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
	require.Len(t, entries, 1)
	assert.Equal(t, "query", entries[0]["stage"])
}

func TestSearch_EnrichmentFailureAborts(t *testing.T) {
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, "case", 10).Return([]int64{5, 6, 7}, nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(record(5), nil)
	repo.On("GetByID", mock.Anything, int64(6)).Return(nil, errors.New("connection reset"))
	svc, recorder := newTestService(t, repo, Options{})

	records, err := svc.Search(context.Background(), domain.NewSearchRequest("case"))

	assert.Nil(t, records)
	require.ErrorIs(t, err, domain.ErrInternal)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, int64(7))

	entries := recorder.EntriesAtOrAbove(slog.LevelWarn)
	require.Len(t, entries, 1, "the enrichment failure is logged once")
	assert.Equal(t, "enrich", entries[0]["stage"])
}

func TestSearch_UsesInjectedLookup(t *testing.T) {
	repo := new(MockRecordStore)
	repo.On("SearchIDsByName", mock.Anything, "Case", 10).Return([]int64{5, 6, 7}, nil)

	lookup := new(MockRecordLookup)
	lookup.On("LookupRecord", mock.Anything, int64(5)).Return(record(5), nil)
	lookup.On("LookupRecord", mock.Anything, int64(6)).Return(nil, domain.NewNotFoundError(6))
	lookup.On("LookupRecord", mock.Anything, int64(7)).Return(record(7), nil)

	svc, _ := newTestService(t, repo, Options{Lookup: lookup})

	records, err := svc.Search(context.Background(), domain.NewSearchRequest("Case"))

	require.NoError(t, err)
	assert.Equal(t, []domain.Record{*record(5), *record(7)}, records)
	lookup.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestNotify(t *testing.T) {
	t.Run("hands the message to the notifier", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Notify", mock.Anything, "Workspace notification for workspace 1015024").Return()
		svc, err := NewWorkspaceService(new(MockRecordStore), notifier, nil, Options{})
		require.NoError(t, err)

		svc.Notify(context.Background(), 1015024)

		notifier.AssertExpectations(t)
	})

	t.Run("delivery failure never reaches the caller", func(t *testing.T) {
		delivered := make(chan struct{})
		sender := notify.SenderFunc(func(context.Context, string) error {
			defer close(delivered)
			return errors.New("network unreachable")
		})
		dispatcher := notify.NewDispatcher(sender, notify.Config{QueueSize: 1, WorkerCount: 1}, nil)
		dispatcher.Start()

		svc, err := NewWorkspaceService(new(MockRecordStore), dispatcher, nil, Options{})
		require.NoError(t, err)

		assert.NotPanics(t, func() { svc.Notify(context.Background(), 7) })
		<-delivered
		require.NoError(t, dispatcher.Stop(context.Background()))
	})

	t.Run("nil notifier discards", func(t *testing.T) {
		svc, err := NewWorkspaceService(new(MockRecordStore), nil, nil, Options{})
		require.NoError(t, err)
		assert.NotPanics(t, func() { svc.Notify(context.Background(), 1) })
	})
}
