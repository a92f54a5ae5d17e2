package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aeromov/movements-backend/internal/movements/domain"
	"github.com/aeromov/movements-backend/internal/movements/service"
)

// uploadFileField is the multipart field name the frontend posts the log under.
const uploadFileField = "dataFile"

// maxUploadBytes bounds a single .dat upload. Tower exports are a few MB.
const maxUploadBytes = 32 << 20

type Handler struct {
	svc *service.MovementService
}

func NewHandler(svc *service.MovementService) *Handler {
	return &Handler{svc: svc}
}

// Index renders the upload UI shell.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Upload receives a .dat movement log, parses it and persists the records.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(uploadFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file sent"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid filename"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}

	upload, err := h.svc.ProcessUpload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoRecords):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no valid records found in file"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "movement store not initialized"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to process file: %v", err)})
		}
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Message:       fmt.Sprintf("%d records processed and saved.", upload.RecordCount),
		UploadedCount: upload.RecordCount,
		UploadID:      upload.ID,
	})
}

// FetchAll returns every stored movement.
func (h *Handler) FetchAll(c *gin.Context) {
	movements, err := h.svc.FetchAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "movement store not initialized"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to fetch movements: %v", err)})
		return
	}

	c.JSON(http.StatusOK, FetchAllResponse{Data: movements})
}

// ListUploads returns the upload audit history.
func (h *Handler) ListUploads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	uploads, err := h.svc.ListUploads(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrAuditDisabled) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "upload audit store not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to list uploads: %v", err)})
		return
	}

	c.JSON(http.StatusOK, UploadListResponse{Uploads: uploads})
}

// DownloadUpload returns a presigned link to the archived raw file of one
// upload.
func (h *Handler) DownloadUpload(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUploadNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "upload not found"})
		case errors.Is(err, domain.ErrNotArchived):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no archived file for this upload"})
		case errors.Is(err, domain.ErrAuditDisabled):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "upload audit store not configured"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to resolve download: %v", err)})
		}
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{URL: url})
}

// DailyStats returns per-day movement aggregates. Accepts from/to query
// params in YYYY-MM-DD form; defaults to the last 30 days.
func (h *Handler) DailyStats(c *gin.Context) {
	var from, to time.Time
	var err error

	if v := c.Query("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from date, expected YYYY-MM-DD"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to date, expected YYYY-MM-DD"})
			return
		}
	}

	stats, err := h.svc.DailyStats(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrStatsDisabled) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "stats store not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to load stats: %v", err)})
		return
	}

	c.JSON(http.StatusOK, DailyStatsResponse{Stats: stats})
}
