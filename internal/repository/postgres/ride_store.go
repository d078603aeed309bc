// Package postgres keeps the ride list as a single JSONB document in
// PostgreSQL, accessed through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS ride_documents (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type RideStore struct {
	pool *pgxpool.Pool
	key  string
}

// Connect opens a pool for dsn, checks connectivity and creates the table.
func Connect(ctx context.Context, dsn string) (*RideStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &RideStore{pool: pool, key: repository.StorageKey}, nil
}

func (s *RideStore) Load(ctx context.Context) ([]entities.Ride, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM ride_documents WHERE key = $1`, s.key,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rides: %w", err)
	}
	return repository.DecodeRides(payload)
}

func (s *RideStore) Save(ctx context.Context, rides []entities.Ride) error {
	payload, err := repository.EncodeRides(rides)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO ride_documents (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.key, payload,
	)
	if err != nil {
		return fmt.Errorf("save rides: %w", err)
	}
	return nil
}

func (s *RideStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM ride_documents WHERE key = $1`, s.key); err != nil {
		return fmt.Errorf("clear rides: %w", err)
	}
	return nil
}

func (s *RideStore) Close() error {
	s.pool.Close()
	return nil
}
