package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromov/movements-backend/internal/movements/domain"
	"github.com/aeromov/movements-backend/internal/movements/repository"
)

func setupCacheRepo(t *testing.T) (*repository.CacheRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return repository.NewCacheRepository(client), mr
}

func sampleMovements() []domain.Movement {
	ts := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	return []domain.Movement{
		{
			Timestamp:    &ts,
			Registration: "PTMAB",
			AircraftType: "C152",
			Destination:  "SBGR",
			FlightRule:   domain.RuleIFR,
			Runway:       "09",
			Operator:     "JSILVA",
		},
		{
			Registration: "PPXYZ",
			AircraftType: "R44",
			Destination:  "LOCAL",
			FlightRule:   domain.RuleVFR,
			Runway:       "27",
			Operator:     "MCOSTA",
		},
	}
}

func TestCacheRepository_FetchAllRoundTrip(t *testing.T) {
	repo, _ := setupCacheRepo(t)
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := repo.GetFetchAll(ctx)
		assert.False(t, ok)
	})

	t.Run("hit after set", func(t *testing.T) {
		want := sampleMovements()
		require.NoError(t, repo.SetFetchAll(ctx, want))

		got, ok := repo.GetFetchAll(ctx)
		require.True(t, ok)
		require.Len(t, got, 2)
		assert.Equal(t, "PTMAB", got[0].Registration)
		require.NotNil(t, got[0].Timestamp)
		assert.True(t, got[0].Timestamp.Equal(*want[0].Timestamp))
		assert.Nil(t, got[1].Timestamp)
	})

	t.Run("miss after TTL expires", func(t *testing.T) {
		repo, mr := setupCacheRepo(t)
		require.NoError(t, repo.SetFetchAll(ctx, sampleMovements()))

		mr.FastForward(2 * time.Minute)

		_, ok := repo.GetFetchAll(ctx)
		assert.False(t, ok)
	})
}

func TestCacheRepository_MarkUpload(t *testing.T) {
	repo, _ := setupCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetFetchAll(ctx, sampleMovements()))

	require.NoError(t, repo.MarkUpload(ctx, "upload-123"))

	t.Run("invalidates fetch cache", func(t *testing.T) {
		_, ok := repo.GetFetchAll(ctx)
		assert.False(t, ok)
	})

	t.Run("records last upload id", func(t *testing.T) {
		id, err := repo.LastUploadID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "upload-123", id)
	})
}

func TestCacheRepository_NilClientIsNoop(t *testing.T) {
	repo := repository.NewCacheRepository(nil)
	ctx := context.Background()

	assert.NoError(t, repo.SetFetchAll(ctx, sampleMovements()))
	_, ok := repo.GetFetchAll(ctx)
	assert.False(t, ok)
	assert.NoError(t, repo.MarkUpload(ctx, "x"))

	id, err := repo.LastUploadID(ctx)
	assert.NoError(t, err)
	assert.Empty(t, id)
}
