package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aeromov/movements-backend/internal/movements/domain"
)

const (
	fetchAllCacheKey   = "mov:cache:all"     // cached fetch_all payload
	lastUploadKey      = "mov:last_upload"   // id of the most recent upload
	uploadCountKey     = "mov:upload_count"  // running counter across restarts
	fetchAllCacheTTL   = 60 * time.Second    // short; uploads invalidate anyway
	uploadMarkerExpiry = 7 * 24 * time.Hour
)

// CacheRepository keeps hot read paths off Firestore. All operations are
// best-effort; a nil repository is a valid no-op cache.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// GetFetchAll returns the cached movement list, or (nil, false) on a miss.
func (r *CacheRepository) GetFetchAll(ctx context.Context) ([]domain.Movement, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}

	data, err := r.client.Get(ctx, fetchAllCacheKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	var movements []domain.Movement
	if err := json.Unmarshal([]byte(data), &movements); err != nil {
		return nil, false
	}

	return movements, true
}

// SetFetchAll caches the movement list with a short TTL.
func (r *CacheRepository) SetFetchAll(ctx context.Context, movements []domain.Movement) error {
	if r == nil || r.client == nil {
		return nil
	}

	data, err := json.Marshal(movements)
	if err != nil {
		return fmt.Errorf("marshal movement cache: %w", err)
	}

	if err := r.client.Set(ctx, fetchAllCacheKey, data, fetchAllCacheTTL).Err(); err != nil {
		return fmt.Errorf("set movement cache: %w", err)
	}

	return nil
}

// MarkUpload invalidates the fetch cache and records the upload marker in one
// round trip.
func (r *CacheRepository) MarkUpload(ctx context.Context, uploadID string) error {
	if r == nil || r.client == nil {
		return nil
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, fetchAllCacheKey)
	pipe.Set(ctx, lastUploadKey, uploadID, uploadMarkerExpiry)
	pipe.Incr(ctx, uploadCountKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark upload: %w", err)
	}

	return nil
}

// LastUploadID returns the id recorded by the most recent MarkUpload, empty
// when none is known.
func (r *CacheRepository) LastUploadID(ctx context.Context) (string, error) {
	if r == nil || r.client == nil {
		return "", nil
	}

	id, err := r.client.Get(ctx, lastUploadKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get last upload: %w", err)
	}

	return id, nil
}
