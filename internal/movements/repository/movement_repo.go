package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"

	"github.com/aeromov/movements-backend/internal/movements/domain"
)

const (
	// Firestore rejects batches above 500 writes.
	batchWriteLimit = 500
	// Commit throttle, keeps bulk uploads under the per-database write quota.
	commitsPerSecond = 4
)

// MovementRepository persists movements in a Firestore collection.
type MovementRepository struct {
	client     *firestore.Client
	collection string
	limiter    *rate.Limiter
}

func NewMovementRepository(client *firestore.Client, collection string) *MovementRepository {
	return &MovementRepository{
		client:     client,
		collection: collection,
		limiter:    rate.NewLimiter(commitsPerSecond, 1),
	}
}

// SaveBatch writes all records in chunked batches and returns the number of
// documents written. A failed commit aborts the remaining chunks.
func (r *MovementRepository) SaveBatch(ctx context.Context, records []domain.Movement) (int, error) {
	col := r.client.Collection(r.collection)
	written := 0

	for start := 0; start < len(records); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(records) {
			end = len(records)
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return written, fmt.Errorf("batch throttle: %w", err)
		}

		batch := r.client.Batch()
		for _, rec := range records[start:end] {
			batch.Create(col.NewDoc(), rec)
		}

		if _, err := batch.Commit(ctx); err != nil {
			return written, fmt.Errorf("commit movement batch: %w", err)
		}
		written += end - start
	}

	return written, nil
}

// FetchAll streams the whole collection back.
func (r *MovementRepository) FetchAll(ctx context.Context) ([]domain.Movement, error) {
	movements := []domain.Movement{}

	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate movements: %w", err)
		}

		var m domain.Movement
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("decode movement %s: %w", doc.Ref.ID, err)
		}
		movements = append(movements, m)
	}

	return movements, nil
}

// CountByDay aggregates the collection into per-day totals split by flight
// rule. Used by the nightly stats job.
func (r *MovementRepository) CountByDay(ctx context.Context) (map[string]*domain.DailyStat, error) {
	movements, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*domain.DailyStat)
	for _, m := range movements {
		if m.Timestamp == nil {
			continue
		}
		day := m.Timestamp.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")

		s, ok := stats[key]
		if !ok {
			s = &domain.DailyStat{Day: day}
			stats[key] = s
		}
		s.Total++
		switch m.FlightRule {
		case domain.RuleIFR:
			s.IFRCount++
		case domain.RuleVFR:
			s.VFRCount++
		}
	}

	return stats, nil
}
