package main

import (
	"context"
	"log"
	"time"

	"github.com/aeromov/movements-backend/config"
	"github.com/aeromov/movements-backend/internal/bootstrap"
	"github.com/aeromov/movements-backend/internal/db"
	"github.com/aeromov/movements-backend/internal/movements/repository"
	"github.com/aeromov/movements-backend/internal/movements/service"
)

// RunRecomputeStats rebuilds the Postgres daily aggregates from Firestore
// once and exits. Same work the nightly cron does, runnable by hand.
func RunRecomputeStats() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fsClient, err := bootstrap.OpenFirestore(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer fsClient.Close()

	if !cfg.DatabaseConfigured() {
		log.Fatal("DB_HOST is required for recompute-stats")
	}
	pgdb, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pgdb.Close()

	svc := service.NewMovementService(service.Deps{
		Movements: repository.NewMovementRepository(fsClient, cfg.Firebase.Collection),
		Cache:     repository.NewCacheRepository(nil),
		Stats:     repository.NewStatsRepository(pgdb.Pool),
	})

	days, err := svc.RecomputeDailyStats(ctx)
	if err != nil {
		log.Fatalf("recompute stats: %v", err)
	}

	log.Printf("recomputed %d days of stats", days)
}
