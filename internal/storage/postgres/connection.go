package postgres

import (
	"database/sql"
	"fmt"

	"github.com/aeromov/movements-backend/config"
	_ "github.com/lib/pq"
)

func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := DSN(cfg)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// EnsureSchema creates the audit and stats tables when they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id            TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	record_count  INTEGER NOT NULL,
	archive_key   TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS movement_daily_stats (
	day         DATE PRIMARY KEY,
	total       INTEGER NOT NULL,
	ifr_count   INTEGER NOT NULL,
	vfr_count   INTEGER NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
