// Package s3 archives raw upload files so the original tower exports can be
// replayed if the parser or the Firestore data ever needs to be rebuilt.
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aeromov/movements-backend/config"
)

// Archiver is a thin wrapper around the AWS SDK v2 S3 client scoped to one
// archive bucket.
type Archiver struct {
	api     *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewArchiver builds a client from the ambient AWS credential chain. Returns
// an error when no bucket is configured; callers treat archival as optional.
func NewArchiver(ctx context.Context, cfg *config.ArchiveConfig) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("ARCHIVE_BUCKET is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// Static keys override the ambient chain, e.g. against MinIO in staging.
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &Archiver{
		api:     client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// ArchiveRaw stores the raw upload under uploads/<id>.dat with its sha256 as
// checksum metadata and returns the object key. Nil archiver is a no-op.
func (a *Archiver) ArchiveRaw(ctx context.Context, uploadID string, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}

	key := fmt.Sprintf("uploads/%s.dat", uploadID)
	digest := sha256.Sum256(data)
	checksum := base64.StdEncoding.EncodeToString(digest[:])
	size := int64(len(data))

	_, err := a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         &a.bucket,
		Key:            &key,
		Body:           bytes.NewReader(data),
		ContentLength:  &size,
		ChecksumSHA256: &checksum,
	})
	if err != nil {
		return "", fmt.Errorf("archive upload %s: %w", uploadID, err)
	}

	return key, nil
}

// PresignGet generates a presigned GET URL so operators can download an
// archived file without bucket credentials.
func (a *Archiver) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if a == nil {
		return "", errors.New("archiver not configured")
	}

	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("presign archive object: %w", err)
	}

	return req.URL, nil
}
