package history

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the connection pool behind the Postgres recorder.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresRecorder writes ledger rows into Postgres.
type PostgresRecorder struct {
	pool  execCloser
	table string
}

// NewPostgresRecorder creates a Postgres-backed Recorder using the provided config.
func NewPostgresRecorder(ctx context.Context, cfg PostgresConfig) (*PostgresRecorder, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("history.postgres.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "patch_scrapes"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresRecorder{
		pool:  pool,
		table: table,
	}, nil
}

// NewPostgresRecorderWithPool constructs a recorder from an existing pool
// (primarily for testing).
func NewPostgresRecorderWithPool(pool execCloser, table string) (*PostgresRecorder, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "patch_scrapes"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresRecorder{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (r *PostgresRecorder) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// Record inserts one ledger row.
func (r *PostgresRecorder) Record(ctx context.Context, entry Entry) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("history recorder is not configured")
	}
	if entry.RunID == "" {
		return fmt.Errorf("entry run id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	run_id,
	url,
	version,
	status,
	strategy,
	body_hash,
	duration_ms,
	error_text,
	scraped_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`, r.table)

	args := []any{
		entry.RunID,
		entry.URL,
		entry.Version,
		entry.Status,
		entry.Strategy,
		entry.BodyHash,
		entry.Duration.Milliseconds(),
		entry.ErrorText,
		entry.ScrapedAt,
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scrape entry: %w", err)
	}
	return nil
}
