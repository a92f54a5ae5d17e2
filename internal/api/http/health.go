package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/aeromov/movements-backend/internal/movements/service"
)

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Service   string           `json:"service"`
	Version   string           `json:"version"`
	Store     string           `json:"store"`
	Cache     string           `json:"cache,omitempty"`
	DB        string           `json:"db,omitempty"`
	Metrics   service.Snapshot `json:"metrics"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	cache       *redis.Client
	storeUp     func() bool
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, cache *redis.Client, storeUp func() bool) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
		storeUp:     storeUp,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus := "disabled"
	if h.storeUp != nil && h.storeUp() {
		storeStatus = "up"
	}

	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.cache.Ping(pingCtx).Err(); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Store:     storeStatus,
		Cache:     cacheStatus,
		DB:        dbStatus,
		Metrics:   service.GetMetrics(),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
