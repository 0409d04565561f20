package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is a shared cache tier selected when DATABASE_URL is set. The
// table is created on startup; one row per key with an upserted JSON
// payload.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS matrix_cache (
        key TEXT PRIMARY KEY,
        payload JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("matrix cache: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (*Matrices, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM matrix_cache WHERE key=$1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matrix cache: select: %w", err)
	}
	var m Matrices
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, nil
	}
	return &m, nil
}

func (p *Postgres) Put(ctx context.Context, key string, m *Matrices) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("matrix cache: encode: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO matrix_cache (key, payload) VALUES ($1,$2)
        ON CONFLICT (key) DO UPDATE SET payload=EXCLUDED.payload, created_at=now()`, key, payload)
	if err != nil {
		return fmt.Errorf("matrix cache: upsert: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() error { return p.db.Close() }
