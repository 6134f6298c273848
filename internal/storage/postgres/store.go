package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"raffleScope/internal/model"
)

// Store provides Postgres persistence for activities and leaderboard
// snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertActivities inserts or updates normalized activities. An activity is
// identified by its transaction version, type, and raffle; re-syncing the
// same range is idempotent.
func (s *Store) UpsertActivities(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range activities {
		batch.Queue(`
			INSERT INTO raffle_activities (
				transaction_version, activity_type, raffle_id, buyer, creator, winner,
				ticket_count, total_paid, prize_amount, activity_ts, block_height, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (transaction_version, activity_type, raffle_id)
			DO UPDATE SET
				buyer = EXCLUDED.buyer,
				creator = EXCLUDED.creator,
				winner = EXCLUDED.winner,
				ticket_count = EXCLUDED.ticket_count,
				total_paid = EXCLUDED.total_paid,
				prize_amount = EXCLUDED.prize_amount,
				activity_ts = EXCLUDED.activity_ts,
				block_height = EXCLUDED.block_height,
				updated_at = now()
		`,
			a.TransactionVersion,
			string(a.Type),
			int64(a.RaffleID),
			a.Buyer,
			a.Creator,
			a.Winner,
			int64(a.TicketCount),
			a.TotalPaid,
			a.PrizeAmount,
			a.Timestamp,
			int64(a.BlockHeight),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range activities {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertLeaderboard replaces the snapshot for a scope ("global" or a raffle
// key) with freshly computed entries.
func (s *Store) UpsertLeaderboard(ctx context.Context, scope string, entries []model.LeaderboardEntry) error {
	if scope == "" {
		return fmt.Errorf("leaderboard scope required")
	}
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM leaderboard_snapshots WHERE scope = $1`, scope)
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO leaderboard_snapshots (
				scope, address, total_tickets, total_spent, raffle_count, rank, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,now())
		`,
			scope,
			e.Address,
			int64(e.TotalTickets),
			e.TotalSpent,
			e.RaffleCount,
			e.Rank,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(entries)+1; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last processed transaction version for a sync name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var version uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_version FROM sync_state WHERE name=$1`, name)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return version, true, nil
}

// SaveState upserts the last processed transaction version for a sync name,
// tagged with the run that produced it.
func (s *Store) SaveState(ctx context.Context, name string, version uint64, runID string) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_state (name, last_processed_version, run_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_version = EXCLUDED.last_processed_version,
			run_id = EXCLUDED.run_id,
			updated_at = now()
	`, name, version, runID)
	return err
}
