package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/aeromov/movements-backend/internal/api/http"
	"github.com/aeromov/movements-backend/internal/api/http/middleware"
	movhttp "github.com/aeromov/movements-backend/internal/movements/http"
	"github.com/aeromov/movements-backend/internal/movements/service"
)

type RouterDeps struct {
	ServiceName      string
	Version          string
	Service          *service.MovementService
	DB               *pgxpool.Pool
	Redis            *redis.Client
	TemplatesGlob    string
	UploadsPerMinute int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	if dep.TemplatesGlob != "" {
		r.LoadHTMLGlob(dep.TemplatesGlob)
	}

	storeUp := func() bool { return false }
	if dep.Service != nil {
		storeUp = dep.Service.StoreAvailable
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis, storeUp)
	healthHandler.RegisterRoutes(r)

	r.Use(middleware.RequestIDMiddleware())

	perMinute := dep.UploadsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	uploadLimiter := middleware.NewUploadRateLimiter(perMinute, 3)

	handler := movhttp.NewHandler(dep.Service)
	movhttp.Register(r, handler, uploadLimiter)

	return r
}
