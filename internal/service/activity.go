package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"raffleScope/internal/aggregate"
	"raffleScope/internal/cache"
	"raffleScope/internal/enrich"
	"raffleScope/internal/indexer"
	"raffleScope/internal/model"
	"raffleScope/internal/normalize"
)

// Defaults for the service configuration.
const (
	DefaultPageSize = 100
	DefaultCacheTTL = 15 * time.Second
)

// BackendAPI is the optional cache API in front of the indexer. It is the
// preferred source; every method may fail, in which case the service falls
// back to direct indexer queries.
type BackendAPI interface {
	GlobalActivity(ctx context.Context) ([]model.Activity, error)
	RaffleActivity(ctx context.Context, raffleID uint64) ([]model.Activity, error)
	UserActivity(ctx context.Context, address string) ([]model.Activity, error)
	GlobalLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	RaffleLeaderboard(ctx context.Context, raffleID uint64, limit int) ([]model.LeaderboardEntry, error)
	RaffleStats(ctx context.Context, raffleID uint64) (model.RaffleStats, error)
	PlatformStats(ctx context.Context) (model.RaffleStats, error)
}

// EventSource fetches raw events directly from the indexer.
type EventSource interface {
	RaffleEvents(ctx context.Context, address string, filter indexer.EventFilter, limit, offset int) ([]model.RawEvent, error)
}

// Config holds service settings.
type Config struct {
	ContractAddress string
	PageSize        int
	CacheTTL        time.Duration
}

// ActivityService serves normalized raffle activity, leaderboards, and stats.
// Results are cached for the configured TTL. Methods do not return errors:
// when every source fails the documented empty/default shape is returned and
// the failure is logged, so a broken data source degrades the output instead
// of crashing the caller.
type ActivityService struct {
	cfg      Config
	backend  BackendAPI
	events   EventSource
	enricher *enrich.Enricher
	logger   *zap.Logger

	activityCache    *cache.TTL[string, []model.Activity]
	leaderboardCache *cache.TTL[string, []model.LeaderboardEntry]
	statsCache       *cache.TTL[string, model.RaffleStats]
}

// NewActivityService builds the service. backend may be nil when no cache API
// is configured; the service then always queries the indexer directly.
func NewActivityService(cfg Config, backend BackendAPI, events EventSource, enricher *enrich.Enricher, logger *zap.Logger) *ActivityService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		cfg:              cfg,
		backend:          backend,
		events:           events,
		enricher:         enricher,
		logger:           logger,
		activityCache:    cache.NewTTL[string, []model.Activity](cfg.CacheTTL),
		leaderboardCache: cache.NewTTL[string, []model.LeaderboardEntry](cfg.CacheTTL),
		statsCache:       cache.NewTTL[string, model.RaffleStats](cfg.CacheTTL),
	}
}

// GlobalActivity returns recent activity across all raffles.
func (s *ActivityService) GlobalActivity(ctx context.Context, limit int) []model.Activity {
	return s.activity(ctx, "activity:global", limit, func(ctx context.Context) ([]model.Activity, error) {
		if s.backend == nil {
			return nil, errBackendUnconfigured
		}
		return s.backend.GlobalActivity(ctx)
	}, nil)
}

// RaffleActivity returns recent activity for one raffle.
func (s *ActivityService) RaffleActivity(ctx context.Context, raffleID uint64, limit int) []model.Activity {
	key := fmt.Sprintf("activity:raffle:%d", raffleID)
	return s.activity(ctx, key, limit, func(ctx context.Context) ([]model.Activity, error) {
		if s.backend == nil {
			return nil, errBackendUnconfigured
		}
		return s.backend.RaffleActivity(ctx, raffleID)
	}, func(a model.Activity) bool {
		return a.RaffleID == raffleID
	})
}

// UserActivity returns recent activity involving one address, as buyer,
// creator, or winner.
func (s *ActivityService) UserActivity(ctx context.Context, address string, limit int) []model.Activity {
	addr := normalize.Address(address)
	key := "activity:user:" + addr
	return s.activity(ctx, key, limit, func(ctx context.Context) ([]model.Activity, error) {
		if s.backend == nil {
			return nil, errBackendUnconfigured
		}
		return s.backend.UserActivity(ctx, addr)
	}, func(a model.Activity) bool {
		return a.Buyer == addr || a.Creator == addr || a.Winner == addr
	})
}

// GlobalLeaderboard returns the ranked global leaderboard.
func (s *ActivityService) GlobalLeaderboard(ctx context.Context, limit int) []model.LeaderboardEntry {
	key := fmt.Sprintf("leaderboard:global:%d", limit)
	if cached, ok := s.leaderboardCache.Get(key); ok {
		return cached
	}

	if s.backend != nil {
		entries, err := s.backend.GlobalLeaderboard(ctx, limit)
		if err == nil {
			s.leaderboardCache.Set(key, entries)
			return entries
		}
		s.logger.Warn("backend leaderboard failed, falling back to indexer", zap.Error(err))
	}

	entries := aggregate.Leaderboard(s.directActivity(ctx, nil), limit)
	s.leaderboardCache.Set(key, entries)
	return entries
}

// RaffleLeaderboard returns the ranked leaderboard for one raffle.
func (s *ActivityService) RaffleLeaderboard(ctx context.Context, raffleID uint64, limit int) []model.LeaderboardEntry {
	key := fmt.Sprintf("leaderboard:raffle:%d:%d", raffleID, limit)
	if cached, ok := s.leaderboardCache.Get(key); ok {
		return cached
	}

	if s.backend != nil {
		entries, err := s.backend.RaffleLeaderboard(ctx, raffleID, limit)
		if err == nil {
			s.leaderboardCache.Set(key, entries)
			return entries
		}
		s.logger.Warn("backend leaderboard failed, falling back to indexer",
			zap.Uint64("raffle_id", raffleID), zap.Error(err))
	}

	activities := s.directActivity(ctx, func(a model.Activity) bool {
		return a.RaffleID == raffleID
	})
	entries := aggregate.Leaderboard(activities, limit)
	s.leaderboardCache.Set(key, entries)
	return entries
}

// RaffleStats returns summary statistics for one raffle.
func (s *ActivityService) RaffleStats(ctx context.Context, raffleID uint64) model.RaffleStats {
	key := fmt.Sprintf("stats:raffle:%d", raffleID)
	if cached, ok := s.statsCache.Get(key); ok {
		return cached
	}

	if s.backend != nil {
		stats, err := s.backend.RaffleStats(ctx, raffleID)
		if err == nil {
			s.statsCache.Set(key, stats)
			return stats
		}
		s.logger.Warn("backend stats failed, falling back to indexer",
			zap.Uint64("raffle_id", raffleID), zap.Error(err))
	}

	stats := aggregate.Stats(s.directActivity(ctx, func(a model.Activity) bool {
		return a.RaffleID == raffleID
	}))
	s.statsCache.Set(key, stats)
	return stats
}

// PlatformStats returns platform-wide summary statistics.
func (s *ActivityService) PlatformStats(ctx context.Context) model.RaffleStats {
	const key = "stats:platform"
	if cached, ok := s.statsCache.Get(key); ok {
		return cached
	}

	if s.backend != nil {
		stats, err := s.backend.PlatformStats(ctx)
		if err == nil {
			s.statsCache.Set(key, stats)
			return stats
		}
		s.logger.Warn("backend stats failed, falling back to indexer", zap.Error(err))
	}

	stats := aggregate.Stats(s.directActivity(ctx, nil))
	s.statsCache.Set(key, stats)
	return stats
}

// InvalidateCaches drops all cached results, forcing fresh reads.
func (s *ActivityService) InvalidateCaches() {
	s.activityCache.Purge()
	s.leaderboardCache.Purge()
	s.statsCache.Purge()
}

var errBackendUnconfigured = fmt.Errorf("backend api not configured")

func (s *ActivityService) activity(
	ctx context.Context,
	key string,
	limit int,
	preferred func(context.Context) ([]model.Activity, error),
	keep func(model.Activity) bool,
) []model.Activity {
	if cached, ok := s.activityCache.Get(key); ok {
		return truncate(cached, limit)
	}

	activities, err := preferred(ctx)
	if err != nil {
		if err != errBackendUnconfigured {
			s.logger.Warn("backend activity failed, falling back to indexer",
				zap.String("key", key), zap.Error(err))
		}
		activities = s.directActivity(ctx, keep)
	}

	s.activityCache.Set(key, activities)
	return truncate(activities, limit)
}

// directActivity fetches and normalizes raw events from the indexer,
// enriches timestamps, and optionally filters. Errors degrade to an empty
// result.
func (s *ActivityService) directActivity(ctx context.Context, keep func(model.Activity) bool) []model.Activity {
	events, err := s.events.RaffleEvents(ctx, s.cfg.ContractAddress, indexer.FilterAllRaffleEvents, s.cfg.PageSize, 0)
	if err != nil {
		s.logger.Warn("indexer activity fetch failed", zap.Error(err))
		return []model.Activity{}
	}

	activities := make([]model.Activity, 0, len(events))
	for _, event := range events {
		activity, outcome := normalize.Normalize(event)
		if outcome != normalize.OutcomeOK {
			continue
		}
		if keep != nil && !keep(activity) {
			continue
		}
		activities = append(activities, activity)
	}

	if s.enricher != nil {
		s.enricher.Enrich(ctx, activities)
	}
	return activities
}

func truncate(activities []model.Activity, limit int) []model.Activity {
	if limit > 0 && limit < len(activities) {
		return activities[:limit]
	}
	return activities
}
