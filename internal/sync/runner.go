package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"raffleScope/internal/enrich"
	"raffleScope/internal/indexer"
	"raffleScope/internal/model"
	"raffleScope/internal/normalize"
	"raffleScope/internal/storage"
)

// RunConfig holds runtime settings for the sync loop.
type RunConfig struct {
	ContractAddress string
	PageSize        int
	PollInterval    time.Duration
	MaxPages        int
}

// EventSource fetches raw events from the indexer, newest first.
type EventSource interface {
	RaffleEvents(ctx context.Context, address string, filter indexer.EventFilter, limit, offset int) ([]model.RawEvent, error)
}

// DBStore is the optional Postgres sink for normalized activities.
type DBStore interface {
	UpsertActivities(ctx context.Context, activities []model.Activity) error
}

// Runner polls the indexer for new raffle events, normalizes and enriches
// them, and writes them to the configured sinks. Progress is checkpointed by
// transaction version so restarts resume where they left off.
type Runner struct {
	cfg       RunConfig
	events    EventSource
	enricher  *enrich.Enricher
	storage   storage.Storage
	db        DBStore
	errorSink storage.ErrorSink
	state     StateStore
	logger    *zap.Logger
	runID     string
	seen      map[string]struct{}
}

// NewRunner builds a Runner with its dependencies. db, errorSink, and state
// are optional.
func NewRunner(
	cfg RunConfig,
	events EventSource,
	enricher *enrich.Enricher,
	storageSink storage.Storage,
	db DBStore,
	errorSink storage.ErrorSink,
	state StateStore,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	return &Runner{
		cfg:       cfg,
		events:    events,
		enricher:  enricher,
		storage:   storageSink,
		db:        db,
		errorSink: errorSink,
		state:     state,
		logger:    logger,
		runID:     uuid.NewString(),
		seen:      make(map[string]struct{}),
	}
}

// Run executes the sync loop. With a zero poll interval a single pass is
// performed; otherwise passes repeat until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.events == nil {
		return fmt.Errorf("event source is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.ContractAddress == "" {
		return fmt.Errorf("contract address is required")
	}

	r.logger.Info("sync start",
		zap.String("run_id", r.runID),
		zap.String("contract", r.cfg.ContractAddress),
		zap.Int("page_size", r.cfg.PageSize),
		zap.Duration("poll_interval", r.cfg.PollInterval),
	)

	if err := r.runOnce(ctx); err != nil {
		return err
	}
	if r.cfg.PollInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				// A failed pass degrades to the next poll rather than
				// stopping the loop.
				r.logger.Warn("sync pass failed", zap.String("run_id", r.runID), zap.Error(err))
			}
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) error {
	lastVersion := uint64(0)
	if r.state != nil {
		loaded, ok, err := r.state.Load(ctx)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if ok {
			lastVersion = loaded
		}
	}

	activities, parseErrors, maxVersion, err := r.collect(ctx, lastVersion)
	if err != nil {
		return err
	}
	if len(activities) == 0 && len(parseErrors) == 0 {
		r.logger.Debug("nothing new", zap.String("run_id", r.runID), zap.Uint64("last_version", lastVersion))
		return nil
	}

	if r.enricher != nil {
		r.enricher.Enrich(ctx, activities)
	}

	if err := r.storage.PutActivityBatch(activities); err != nil {
		return fmt.Errorf("store activities: %w", err)
	}
	if r.db != nil {
		if err := r.db.UpsertActivities(ctx, activities); err != nil {
			return fmt.Errorf("upsert activities: %w", err)
		}
	}
	if r.errorSink != nil && len(parseErrors) > 0 {
		if err := r.errorSink.PutParseErrors(parseErrors); err != nil {
			return fmt.Errorf("store parse errors: %w", err)
		}
	}

	if r.state != nil && maxVersion > lastVersion {
		if err := r.state.Save(ctx, maxVersion, r.runID); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	r.logger.Info("sync pass complete",
		zap.String("run_id", r.runID),
		zap.Int("activities", len(activities)),
		zap.Int("parse_errors", len(parseErrors)),
		zap.Uint64("max_version", maxVersion),
	)
	return nil
}

// collect pages through the indexer, newest first, until it reaches events at
// or below the checkpointed version.
func (r *Runner) collect(ctx context.Context, lastVersion uint64) ([]model.Activity, []model.ParseError, uint64, error) {
	activities := make([]model.Activity, 0)
	parseErrors := make([]model.ParseError, 0)
	maxVersion := lastVersion

	offset := 0
	for page := 0; page < r.cfg.MaxPages; page++ {
		select {
		case <-ctx.Done():
			return nil, nil, 0, ctx.Err()
		default:
		}

		events, err := r.events.RaffleEvents(ctx, r.cfg.ContractAddress, indexer.FilterAllRaffleEvents, r.cfg.PageSize, offset)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("fetch events: %w", err)
		}
		if len(events) == 0 {
			break
		}

		reachedCheckpoint := false
		for _, event := range events {
			version, versionErr := strconv.ParseUint(event.TransactionVersion, 10, 64)
			if versionErr == nil && version <= lastVersion {
				reachedCheckpoint = true
				break
			}
			if r.isDuplicate(event) {
				continue
			}
			if versionErr == nil && version > maxVersion {
				maxVersion = version
			}

			activity, outcome := normalize.Normalize(event)
			switch outcome {
			case normalize.OutcomeOK:
				activities = append(activities, activity)
			case normalize.OutcomeBadPayload:
				parseErrors = append(parseErrors, model.ParseError{
					EventType:          event.EventType(),
					TransactionVersion: event.TransactionVersion,
					BlockHeight:        event.BlockHeight,
					Error:              "unparseable event data",
				})
			}
		}

		if reachedCheckpoint || len(events) < r.cfg.PageSize {
			break
		}
		offset += r.cfg.PageSize
	}

	return activities, parseErrors, maxVersion, nil
}

func (r *Runner) isDuplicate(event model.RawEvent) bool {
	id := event.TransactionVersion + ":" + event.EventType()
	if _, ok := r.seen[id]; ok {
		return true
	}
	r.seen[id] = struct{}{}
	return false
}
