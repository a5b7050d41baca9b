package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/config"
)

// Client wraps the pgx connection pool. The pool is constructed here and
// owned by the process entry point; everything else receives it injected.
type Client struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewClient creates a connection pool against the configured Postgres and
// verifies it with a ping.
func NewClient(ctx context.Context, cfg *config.Postgres, log *zap.Logger) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres url: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifetimeSec) * time.Second

	log.Info("Connecting to Postgres",
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Int32("min_conns", cfg.MinConns))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info("Postgres connection established successfully")

	return &Client{pool: pool, log: log}, nil
}

// Pool returns the underlying connection pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// RunMigration executes a single SQL migration file.
func (c *Client) RunMigration(ctx context.Context, path string) error {
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", path, err)
	}

	if _, err := c.pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to exec migration %s: %w", path, err)
	}

	c.log.Info("Migration applied", zap.String("path", path))
	return nil
}

// Close closes the connection pool.
func (c *Client) Close() {
	c.log.Info("Closing Postgres connection pool")
	c.pool.Close()
}
