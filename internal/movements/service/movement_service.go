package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aeromov/movements-backend/internal/movements/domain"
	"github.com/aeromov/movements-backend/internal/movements/parser"
	"github.com/aeromov/movements-backend/internal/movements/repository"
	"github.com/aeromov/movements-backend/internal/storage/s3"
)

// MovementService runs the upload pipeline: parse the raw file, persist the
// records, archive the original bytes, audit the upload and invalidate the
// read cache. Firestore is the only hard dependency; everything else degrades
// to a no-op when not configured.
type MovementService struct {
	movements *repository.MovementRepository
	cache     *repository.CacheRepository
	uploads   *repository.UploadRepository
	stats     *repository.StatsRepository
	archiver  *s3.Archiver
}

type Deps struct {
	Movements *repository.MovementRepository
	Cache     *repository.CacheRepository
	Uploads   *repository.UploadRepository
	Stats     *repository.StatsRepository
	Archiver  *s3.Archiver
}

func NewMovementService(deps Deps) *MovementService {
	return &MovementService{
		movements: deps.Movements,
		cache:     deps.Cache,
		uploads:   deps.Uploads,
		stats:     deps.Stats,
		archiver:  deps.Archiver,
	}
}

// ProcessUpload ingests one raw movement log. It returns ErrNoRecords when
// the file holds nothing parseable and ErrStoreUnavailable when Firestore was
// never initialized.
func (s *MovementService) ProcessUpload(ctx context.Context, filename string, data []byte) (*domain.UploadRecord, error) {
	logger := NewLogger(ctx)

	records, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		recordUpload(0, true)
		return nil, err
	}
	if len(records) == 0 {
		recordUpload(0, true)
		return nil, domain.ErrNoRecords
	}

	if s.movements == nil {
		recordUpload(0, true)
		return nil, domain.ErrStoreUnavailable
	}

	start := time.Now()
	written, err := s.movements.SaveBatch(ctx, records)
	recordStoreWrite(time.Since(start), err)
	if err != nil {
		logger.LogError("process_upload", err)
		return nil, err
	}

	upload := &domain.UploadRecord{
		ID:          uuid.New().String(),
		Filename:    filename,
		RecordCount: written,
		CreatedAt:   time.Now().UTC(),
	}

	// Archival and auditing are best-effort: the movements are already
	// persisted, so a failure here must not fail the upload.
	if s.archiver != nil {
		key, err := s.archiver.ArchiveRaw(ctx, upload.ID, data)
		if err != nil {
			logger.LogWarnf("process_upload", "archive failed: %v", err)
		} else {
			upload.ArchiveKey = key
		}
	}

	if s.uploads != nil {
		if err := s.uploads.Create(ctx, upload); err != nil {
			logger.LogWarnf("process_upload", "audit row failed: %v", err)
		}
	}

	if err := s.cache.MarkUpload(ctx, upload.ID); err != nil {
		logger.LogWarnf("process_upload", "cache invalidation failed: %v", err)
	}

	recordUpload(written, false)
	logger.LogInfof("process_upload", "file=%s records=%d", filename, written)

	return upload, nil
}

// FetchAll returns every stored movement, serving from the cache when warm.
func (s *MovementService) FetchAll(ctx context.Context) ([]domain.Movement, error) {
	if cached, ok := s.cache.GetFetchAll(ctx); ok {
		recordCacheLookup(true)
		return cached, nil
	}
	recordCacheLookup(false)

	if s.movements == nil {
		return nil, domain.ErrStoreUnavailable
	}

	movements, err := s.movements.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetFetchAll(ctx, movements); err != nil {
		NewLogger(ctx).LogWarnf("fetch_all", "cache fill failed: %v", err)
	}

	return movements, nil
}

// ListUploads returns the audit history, newest first.
func (s *MovementService) ListUploads(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if s.uploads == nil {
		return nil, domain.ErrAuditDisabled
	}
	return s.uploads.List(ctx, limit)
}

// downloadURLTTL bounds how long a presigned archive link stays valid.
const downloadURLTTL = 15 * time.Minute

// DownloadURL resolves an upload's archive object into a presigned link.
// Returns ErrNotArchived when the upload has no archived file or the
// archive bucket is not configured.
func (s *MovementService) DownloadURL(ctx context.Context, id string) (string, error) {
	if s.uploads == nil {
		return "", domain.ErrAuditDisabled
	}

	upload, err := s.uploads.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if upload.ArchiveKey == "" || s.archiver == nil {
		return "", domain.ErrNotArchived
	}

	return s.archiver.PresignGet(ctx, upload.ArchiveKey, downloadURLTTL)
}

// DailyStats returns the per-day aggregates for the given range.
func (s *MovementService) DailyStats(ctx context.Context, from, to time.Time) ([]domain.DailyStat, error) {
	if s.stats == nil {
		return nil, domain.ErrStatsDisabled
	}
	return s.stats.ListRange(ctx, from, to)
}

// RecomputeDailyStats rebuilds the Postgres aggregates from Firestore. Run by
// the nightly job.
func (s *MovementService) RecomputeDailyStats(ctx context.Context) (int, error) {
	if s.movements == nil {
		return 0, domain.ErrStoreUnavailable
	}
	if s.stats == nil {
		return 0, domain.ErrStatsDisabled
	}

	byDay, err := s.movements.CountByDay(ctx)
	if err != nil {
		return 0, err
	}

	stats := make([]domain.DailyStat, 0, len(byDay))
	for _, stat := range byDay {
		stats = append(stats, *stat)
	}

	if err := s.stats.UpsertBatch(ctx, stats); err != nil {
		return 0, err
	}

	return len(stats), nil
}

// StoreAvailable reports whether the movement store was initialized.
func (s *MovementService) StoreAvailable() bool {
	return s.movements != nil
}
