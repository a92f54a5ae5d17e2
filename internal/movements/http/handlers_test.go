package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	movhttp "github.com/aeromov/movements-backend/internal/movements/http"
	"github.com/aeromov/movements-backend/internal/movements/repository"
	"github.com/aeromov/movements-backend/internal/movements/service"
)

// newTestRouter wires the handler against a service with no stores
// configured. Upload parsing and all degraded-mode responses are reachable
// without Firestore.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewMovementService(service.Deps{
		Cache: repository.NewCacheRepository(nil),
	})

	router := gin.New()
	movhttp.Register(router, movhttp.NewHandler(svc), nil)
	return router
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("missing file field returns 400", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodPost, "/api/upload", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)

		var resp movhttp.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "no file sent", resp.Error)
	})

	t.Run("file without valid records returns 400", func(t *testing.T) {
		body, contentType := multipartBody(t, "dataFile", "empty.dat", "just a header\n\n")
		req := httptest.NewRequest(nethttp.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)

		var resp movhttp.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "no valid records found in file", resp.Error)
	})

	t.Run("valid records without store return 503", func(t *testing.T) {
		line := "SBIZ00001150124PTMAB  C152 SBGR      1430 IV 09  DEP    JSILVA"
		body, contentType := multipartBody(t, "dataFile", "tower.dat", line+"\n")
		req := httptest.NewRequest(nethttp.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rr.Code)
	})

	t.Run("wrong field name returns 400", func(t *testing.T) {
		body, contentType := multipartBody(t, "wrongField", "tower.dat", "content")
		req := httptest.NewRequest(nethttp.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
	})
}

func TestFetchAllHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("store unavailable returns 503", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/api/fetch_all", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rr.Code)
	})
}

func TestListUploadsHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("audit store disabled returns 503", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/api/uploads", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rr.Code)
	})
}

func TestDownloadUploadHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("audit store disabled returns 503", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/api/uploads/u1/download", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rr.Code)

		var resp movhttp.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "upload audit store not configured", resp.Error)
	})
}

func TestDailyStatsHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("invalid from date returns 400", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/api/stats/daily?from=notadate", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
	})

	t.Run("stats store disabled returns 503", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/api/stats/daily", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rr.Code)
	})
}
