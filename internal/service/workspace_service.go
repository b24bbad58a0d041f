package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/store"
)

// NotificationMessageFormat is the text sent when a workspace notification
// is triggered.
const NotificationMessageFormat = "Workspace notification for workspace %d"

// Notifier accepts a message for asynchronous delivery. Implementations
// must not block on delivery and have no failure to report.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// WorkspaceService provides the workspace directory operations.
type WorkspaceService interface {
	// Lookup returns the workspace with the given id, or a NotFound error
	// naming the id.
	Lookup(ctx context.Context, id int64) (*domain.Record, error)

	// Search validates req, fetches up to req.Limit candidate ids whose name
	// contains req.Query, and resolves each to its record. Ids that no
	// longer resolve are dropped without reordering the rest.
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.Record, error)

	// Notify triggers a notification for the workspace and returns
	// immediately. Delivery failures are never reported to the caller.
	Notify(ctx context.Context, id int64)
}

// Options configure optional WorkspaceService behaviour.
type Options struct {
	// Lookup resolves search candidates. Nil resolves them against the
	// service's own repository.
	Lookup RecordLookup

	// EnrichConcurrency bounds in-flight lookups per search. Zero or one
	// resolves candidates sequentially.
	EnrichConcurrency int
}

type workspaceService struct {
	repo     store.RecordStore
	notifier Notifier
	enricher *Enricher
	logger   *slog.Logger
}

// NewWorkspaceService creates a WorkspaceService over repo. A nil notifier
// discards notifications.
func NewWorkspaceService(
	repo store.RecordStore,
	notifier Notifier,
	log *slog.Logger,
	opts Options,
) (WorkspaceService, error) {
	if repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "workspace_service")
	if notifier == nil {
		notifier = discardNotifier{}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = LocalLookup(repo)
	}

	return &workspaceService{
		repo:     repo,
		notifier: notifier,
		enricher: NewEnricher(lookup, opts.EnrichConcurrency, log),
		logger:   log,
	}, nil
}

// LocalLookup resolves ids against repo. Missing ids, including any id
// that is not positive, are reported as NotFound without logging.
func LocalLookup(repo store.RecordStore) RecordLookup {
	return RecordLookupFunc(func(ctx context.Context, id int64) (*domain.Record, error) {
		rec, svcErr := findRecord(ctx, repo, id)
		if svcErr != nil {
			return nil, svcErr
		}
		return rec, nil
	})
}

func findRecord(ctx context.Context, repo store.RecordStore, id int64) (*domain.Record, *domain.ServiceError) {
	if id <= 0 {
		return nil, domain.NewNotFoundError(id)
	}

	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, domain.NewNotFoundError(id)
		}
		return nil, internalError("Failed to retrieve workspace.", err)
	}
	if rec == nil {
		return nil, domain.NewNotFoundError(id)
	}
	return rec, nil
}

// log returns the request-scoped logger, tagged as this component.
func (s *workspaceService) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContextOrDefault(ctx, nil); l != nil {
		return l.With("component", "workspace_service")
	}
	return s.logger
}

// Lookup implements WorkspaceService.
func (s *workspaceService) Lookup(ctx context.Context, id int64) (*domain.Record, error) {
	log := s.log(ctx).With("operation", "lookup", "workspace_id", id)

	rec, svcErr := findRecord(ctx, s.repo, id)
	if svcErr != nil {
		return nil, fail(ctx, log, stageQuery, svcErr)
	}

	log.DebugContext(ctx, "workspace resolved")
	return rec, nil
}

// Search implements WorkspaceService.
func (s *workspaceService) Search(
	ctx context.Context,
	req domain.SearchRequest,
) ([]domain.Record, error) {
	log := s.log(ctx).With(
		"operation", "search",
		"query_length", utf8.RuneCountInString(req.Query),
		"limit", req.Limit,
	)

	if err := req.Validate(); err != nil {
		return nil, fail(ctx, log, stageValidate,
			translate(err, "Invalid search request."))
	}

	ids, err := s.repo.SearchIDsByName(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, fail(ctx, log, stageQuery,
			internalError("Failed to search workspaces.", err))
	}

	records, err := s.enricher.Enrich(ctx, ids)
	if err != nil {
		return nil, fail(ctx, log, stageEnrich,
			translate(err, "Failed to resolve search results."))
	}

	log.DebugContext(ctx, "search completed",
		"candidate_count", len(ids),
		"result_count", len(records))
	return records, nil
}

// Notify implements WorkspaceService.
func (s *workspaceService) Notify(ctx context.Context, id int64) {
	s.notifier.Notify(ctx, fmt.Sprintf(NotificationMessageFormat, id))
	s.log(ctx).InfoContext(ctx, "workspace notification triggered",
		"operation", "notify",
		"workspace_id", id)
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string) {}
