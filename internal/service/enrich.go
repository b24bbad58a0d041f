package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// RecordLookup resolves a single id to its record. Implementations report
// a missing id with an error matching domain.ErrNotFound or store.ErrNotFound.
type RecordLookup interface {
	LookupRecord(ctx context.Context, id int64) (*domain.Record, error)
}

// RecordLookupFunc adapts an ordinary function to the RecordLookup interface.
type RecordLookupFunc func(ctx context.Context, id int64) (*domain.Record, error)

// LookupRecord calls f(ctx, id).
func (f RecordLookupFunc) LookupRecord(ctx context.Context, id int64) (*domain.Record, error) {
	return f(ctx, id)
}

// Enricher turns candidate ids into records via a RecordLookup.
type Enricher struct {
	lookup      RecordLookup
	concurrency int
	logger      *slog.Logger
}

// NewEnricher creates an Enricher. A concurrency of 1 or less resolves ids
// one at a time.
func NewEnricher(lookup RecordLookup, concurrency int, logger *slog.Logger) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{lookup: lookup, concurrency: concurrency, logger: logger}
}

// isMiss reports whether err means the id no longer resolves.
func isMiss(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, store.ErrNotFound)
}

// Enrich resolves ids in order. Ids that do not resolve are skipped; any
// other failure aborts enrichment and is returned. The result preserves the
// order of ids.
func (e *Enricher) Enrich(ctx context.Context, ids []int64) ([]domain.Record, error) {
	if e.concurrency == 1 || len(ids) <= 1 {
		return e.enrichSequential(ctx, ids)
	}
	return e.enrichConcurrent(ctx, ids)
}

func (e *Enricher) enrichSequential(ctx context.Context, ids []int64) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := e.resolveOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (e *Enricher) enrichConcurrent(ctx context.Context, ids []int64) ([]domain.Record, error) {
	slots := make([]*domain.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rec, err := e.resolveOne(gctx, id)
			if err != nil {
				return err
			}
			slots[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(ids))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// resolveOne returns the record for id, nil for a miss, or a hard failure.
func (e *Enricher) resolveOne(ctx context.Context, id int64) (*domain.Record, error) {
	rec, err := e.lookup.LookupRecord(ctx, id)
	switch {
	case err == nil && rec != nil:
		return rec, nil
	case err == nil, isMiss(err):
		e.logger.DebugContext(ctx, "enrichment miss skipped", "workspace_id", id)
		return nil, nil
	default:
		return nil, err
	}
}
