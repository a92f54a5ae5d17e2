package http

import "github.com/aeromov/movements-backend/internal/movements/domain"

// Response shapes preserved from the original frontend contract.

type UploadResponse struct {
	Message       string `json:"message"`
	UploadedCount int    `json:"uploadedCount"`
	UploadID      string `json:"upload_id,omitempty"`
}

type FetchAllResponse struct {
	Data []domain.Movement `json:"data"`
}

type UploadListResponse struct {
	Uploads []domain.UploadRecord `json:"uploads"`
}

type DownloadResponse struct {
	URL string `json:"url"`
}

type DailyStatsResponse struct {
	Stats []domain.DailyStat `json:"stats"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
