package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/aeromov/movements-backend/config"
	"github.com/aeromov/movements-backend/internal/bootstrap"
	"github.com/aeromov/movements-backend/internal/db"
	"github.com/aeromov/movements-backend/internal/movements/cron"
	"github.com/aeromov/movements-backend/internal/movements/repository"
	"github.com/aeromov/movements-backend/internal/movements/service"
	"github.com/aeromov/movements-backend/internal/storage/postgres"
	"github.com/aeromov/movements-backend/internal/storage/s3"
)

const serviceName = "movements-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	// Firestore holds the movement data. When it cannot be reached the
	// service still starts and answers reads and writes with 503.
	var movementRepo *repository.MovementRepository
	fsClient, err := bootstrap.OpenFirestore(ctx, &cfg.Firebase)
	if err != nil {
		log.Printf("Firestore init failed, movement storage disabled: %v", err)
	} else {
		defer fsClient.Close()
		movementRepo = repository.NewMovementRepository(fsClient, cfg.Firebase.Collection)
		log.Printf("Firestore initialized, collection=%s", cfg.Firebase.Collection)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = bootstrap.OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			log.Printf("Redis unavailable, running without cache: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)

	var (
		uploadRepo *repository.UploadRepository
		statsRepo  *repository.StatsRepository
		pool       *pgxpool.Pool
	)
	if cfg.DatabaseConfigured() {
		sqlDB, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			log.Printf("Postgres unavailable, audit and stats disabled: %v", err)
		} else {
			defer sqlDB.Close()
			if err := postgres.EnsureSchema(sqlDB); err != nil {
				log.Fatalf("schema: %v", err)
			}
			uploadRepo = repository.NewUploadRepository(sqlDB)

			pgdb, err := db.Open(ctx, &cfg.Database)
			if err != nil {
				log.Printf("pgx pool unavailable, stats disabled: %v", err)
			} else {
				defer pgdb.Close()
				pool = pgdb.Pool
				statsRepo = repository.NewStatsRepository(pool)
			}
		}
	}

	var archiver *s3.Archiver
	if cfg.Archive.Bucket != "" {
		archiver, err = s3.NewArchiver(ctx, &cfg.Archive)
		if err != nil {
			log.Printf("S3 archiver unavailable, raw uploads not archived: %v", err)
			archiver = nil
		}
	}

	svc := service.NewMovementService(service.Deps{
		Movements: movementRepo,
		Cache:     cacheRepo,
		Uploads:   uploadRepo,
		Stats:     statsRepo,
		Archiver:  archiver,
	})

	if movementRepo != nil && statsRepo != nil {
		sched := cron.NewScheduler(svc)
		sched.Start()
		defer sched.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		Service:       svc,
		DB:            pool,
		Redis:         redisClient,
		TemplatesGlob: "templates/*",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:  2 * cfg.Server.RequestTimeout,
	}

	go func() {
		log.Printf("listening on %s (request timeout %s)", srv.Addr, cfg.Server.RequestTimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
