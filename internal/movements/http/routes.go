package http

import (
	"github.com/gin-gonic/gin"

	"github.com/aeromov/movements-backend/internal/api/http/middleware"
)

// Register wires the movement routes. The upload endpoint sits behind the
// per-client rate limiter; reads are unthrottled.
func Register(r gin.IRouter, h *Handler, uploadLimiter *middleware.UploadRateLimiter) {
	r.GET("/", h.Index)

	api := r.Group("/api")

	if uploadLimiter != nil {
		api.POST("/upload", uploadLimiter.Middleware(), h.Upload)
	} else {
		api.POST("/upload", h.Upload)
	}

	api.GET("/fetch_all", h.FetchAll)
	api.GET("/uploads", h.ListUploads)
	api.GET("/uploads/:id/download", h.DownloadUpload)
	api.GET("/stats/daily", h.DailyStats)
}
