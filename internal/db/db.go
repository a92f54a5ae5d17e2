package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeromov/movements-backend/config"
	"github.com/aeromov/movements-backend/internal/storage/postgres"
)

type DB struct {
	Pool *pgxpool.Pool
}

// Open connects a pgx pool using the shared database config.
func Open(ctx context.Context, dbCfg *config.DatabaseConfig) (*DB, error) {
	if dbCfg.Host == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}

	cfg, err := pgxpool.ParseConfig(postgres.DSN(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	// Fail fast
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
