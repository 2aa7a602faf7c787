// Package pg implementa el Repository contra Postgres.
// El estado se guarda como una única fila JSONB (id = "main"), manteniendo
// la semántica de documento del adapter mongo.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS app_state (
	id  TEXT PRIMARY KEY,
	doc JSONB NOT NULL
)`

type Store struct{ pool *pgxpool.Pool }

func New(ctx context.Context, dsn string) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Read(ctx context.Context) (store.StateRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM app_state WHERE id = $1`, store.StateID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.DefaultState(), nil
	}
	if err != nil {
		return store.StateRecord{}, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var rec store.StateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return store.StateRecord{}, fmt.Errorf("pg: decode state: %v", err)
	}
	return rec.Normalize(), nil
}

func (s *Store) Replace(ctx context.Context, rec store.StateRecord) error {
	raw, err := json.Marshal(rec.Normalize())
	if err != nil {
		return fmt.Errorf("pg: encode state: %v", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO app_state (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		store.StateID, raw,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close(ctx context.Context) error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
