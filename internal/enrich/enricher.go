package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"raffleScope/internal/model"
)

// defaultConcurrency bounds parallel timestamp lookups per batch.
const defaultConcurrency = 8

// TimestampResolver resolves a transaction version to a wall-clock timestamp.
// An empty string means the version is unknown to the resolver.
type TimestampResolver interface {
	TransactionTimestamp(ctx context.Context, version string) (string, error)
}

// Enricher fills Activity timestamps by resolving transaction versions.
// Lookups are deduplicated by version and issued in parallel; a version that
// fails to resolve falls back to the current time rather than failing the
// batch, so timestamps are best-effort.
type Enricher struct {
	resolver    TimestampResolver
	logger      *zap.Logger
	concurrency int
	nowFn       func() time.Time
}

// NewEnricher builds an Enricher around a resolver.
func NewEnricher(resolver TimestampResolver, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		resolver:    resolver,
		logger:      logger,
		concurrency: defaultConcurrency,
		nowFn:       time.Now,
	}
}

// Enrich resolves timestamps for all activities in place. Each unique
// transaction version is looked up exactly once.
func (e *Enricher) Enrich(ctx context.Context, activities []model.Activity) {
	versions := make([]string, 0, len(activities))
	seen := make(map[string]struct{}, len(activities))
	for _, activity := range activities {
		if activity.TransactionVersion == "" {
			continue
		}
		if _, ok := seen[activity.TransactionVersion]; ok {
			continue
		}
		seen[activity.TransactionVersion] = struct{}{}
		versions = append(versions, activity.TransactionVersion)
	}

	resolved := make(map[string]string, len(versions))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)
	for _, version := range versions {
		version := version
		group.Go(func() error {
			ts, err := e.resolver.TransactionTimestamp(groupCtx, version)
			if err != nil {
				e.logger.Warn("timestamp lookup failed", zap.String("version", version), zap.Error(err))
				return nil
			}
			if ts == "" {
				return nil
			}
			mu.Lock()
			resolved[version] = ts
			mu.Unlock()
			return nil
		})
	}
	group.Wait()

	fallback := e.nowFn().UTC().Format(time.RFC3339)
	for i := range activities {
		if ts, ok := resolved[activities[i].TransactionVersion]; ok {
			activities[i].Timestamp = ts
			continue
		}
		activities[i].Timestamp = fallback
	}
}
