package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Postgres keeps every collection as one JSONB row in the collections table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and ensures the collections table exists.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	logger.Info("connected to postgres", "host", cfg.Host, "db", cfg.DBName)

	p := &Postgres{pool: pool}
	if err := p.ensureCollectionsTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureCollectionsTable(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS collections (
            name TEXT PRIMARY KEY,
            data JSONB NOT NULL,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return fmt.Errorf("store: create collections table: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data::text FROM collections WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load %s: %w", name, err)
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx, `
        INSERT INTO collections (name, data, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		name, string(data),
	)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", name, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, name string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM collections WHERE name = $1`, name); err != nil {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
