// Package history stores fetched quotes in Postgres for later trend queries.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zen-systems/ratewatch/pkg/quote"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS quote_history (
	id          BIGSERIAL PRIMARY KEY,
	fetched_at  TIMESTAMPTZ NOT NULL,
	currency    TEXT NOT NULL,
	house       TEXT NOT NULL,
	name        TEXT NOT NULL,
	buy         DOUBLE PRECISION NOT NULL,
	sell        DOUBLE PRECISION NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO quote_history (fetched_at, currency, house, name, buy, sell, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const recentSQL = `
SELECT fetched_at, currency, house, name, buy, sell, updated_at
FROM quote_history
WHERE house = $1
ORDER BY fetched_at DESC
LIMIT $2`

// Entry is one stored quote observation.
type Entry struct {
	FetchedAt time.Time
	Quote     quote.Quote
}

// Store is a Postgres-backed quote history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the history table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Save inserts one observation per quote, all stamped with fetchedAt.
func (s *Store) Save(ctx context.Context, quotes []quote.Quote, fetchedAt time.Time) error {
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes to save")
	}

	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(insertSQL, fetchedAt.UTC(), q.Currency, q.House, q.Name, q.Buy, q.Sell, q.UpdatedAt.UTC())
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range quotes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert quote: %w", err)
		}
	}
	return nil
}

// Recent returns the newest observations for one house, most recent first.
func (s *Store) Recent(ctx context.Context, house string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, recentSQL, house, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.FetchedAt, &e.Quote.Currency, &e.Quote.House, &e.Quote.Name, &e.Quote.Buy, &e.Quote.Sell, &e.Quote.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
