package domain

import "errors"

var (
	ErrStoreUnavailable = errors.New("movement store not initialized")
	ErrNoRecords        = errors.New("no valid records found in file")
	ErrUploadNotFound   = errors.New("upload not found")
	ErrNotArchived      = errors.New("upload has no archived file")
	ErrAuditDisabled    = errors.New("upload audit store not configured")
	ErrStatsDisabled    = errors.New("stats store not configured")
)
