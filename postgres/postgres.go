// Package postgres provides the PostgreSQL-backed airport store.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
	url  string
}

// NewDB creates a new DB instance for the given connection URL.
func NewDB(url string) *DB {
	return &DB{url: url}
}

// Open connects to the database and creates the schema if needed.
func (db *DB) Open(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, db.url)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	db.pool = pool
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS airports (
            icao TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            iata TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            state_province TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            continent TEXT NOT NULL DEFAULT '',
            metar TEXT NOT NULL DEFAULT '',
            channels_hash TEXT NOT NULL DEFAULT '',
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS audio_channels (
            id UUID PRIMARY KEY,
            airport_icao TEXT NOT NULL REFERENCES airports(icao) ON DELETE CASCADE,
            position INTEGER NOT NULL DEFAULT 0,
            name TEXT NOT NULL,
            feed_status BOOLEAN NOT NULL DEFAULT FALSE,
            frequencies JSONB NOT NULL DEFAULT '[]',
            mp3_url TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS idx_audio_channels_airport_icao ON audio_channels(airport_icao)`,
		`CREATE INDEX IF NOT EXISTS idx_airports_country ON airports(country)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
