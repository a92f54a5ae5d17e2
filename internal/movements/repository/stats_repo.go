package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeromov/movements-backend/internal/movements/domain"
)

// StatsRepository stores the nightly per-day movement aggregates.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// UpsertBatch writes all daily aggregates inside one transaction.
func (r *StatsRepository) UpsertBatch(ctx context.Context, stats []domain.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin stats tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
INSERT INTO movement_daily_stats (day, total, ifr_count, vfr_count, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (day) DO UPDATE
  SET total = EXCLUDED.total,
      ifr_count = EXCLUDED.ifr_count,
      vfr_count = EXCLUDED.vfr_count,
      updated_at = now()
;`

	for _, s := range stats {
		if _, err := tx.Exec(ctx, query, s.Day.UTC(), s.Total, s.IFRCount, s.VFRCount); err != nil {
			return fmt.Errorf("upsert daily stat %s: %w", s.Day.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stats tx: %w", err)
	}

	return nil
}

// ListRange returns the aggregates for [from, to], oldest first. Zero bounds
// fall back to the last 30 days.
func (r *StatsRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.DailyStat, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	const query = `
		SELECT day, total, ifr_count, vfr_count, updated_at
		FROM movement_daily_stats
		WHERE day BETWEEN $1 AND $2
		ORDER BY day ASC
	`

	rows, err := r.pool.Query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.DailyStat{}
	for rows.Next() {
		var s domain.DailyStat
		if err := rows.Scan(&s.Day, &s.Total, &s.IFRCount, &s.VFRCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}

	return stats, nil
}
