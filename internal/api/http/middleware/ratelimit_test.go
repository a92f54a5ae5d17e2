package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aeromov/movements-backend/internal/api/http/middleware"
)

func TestUploadRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middleware.NewUploadRateLimiter(1, 2)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.POST("/upload", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	// Burst of 2 is allowed, the third request in the same instant is not.
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestUploadRateLimiterPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := middleware.NewUploadRateLimiter(1, 1)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.POST("/upload", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1"))
	// A different client has its own budget.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1"))
}

func TestUploadRateLimiterStop(t *testing.T) {
	rl := middleware.NewUploadRateLimiter(1, 1)

	rl.Stop()
	// Idempotent; a second call must not panic on the closed channel.
	rl.Stop()

	// Admission still works after the eviction loop has exited.
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.RemoteAddr = "10.0.0.9:1"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
