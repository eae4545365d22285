package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/mazemesh/logging"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// Options configures Open.
type Options struct {
	// MaxConns caps the pool size. 0 keeps the pgxpool default.
	MaxConns int32
	// SkipMigrate disables schema application, for deployments that manage
	// the schema externally.
	SkipMigrate bool
	// Logger for structured diagnostics.
	Logger logging.Logger
}

// Store bundles the pgx-backed implementations of the core store interfaces
// over one shared connection pool. The sub-stores (Logs, Experiments, Mazes)
// each satisfy their core interface; Locker returns the advisory-lock
// coordinator bound to the same pool.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger

	Logs        *Logs
	Experiments *Experiments
	Mazes       *Mazes
}

// Open connects to the datastore, verifies the connection and applies the
// embedded schema idempotently. dsn is a standard postgres connection string.
func Open(ctx context.Context, dsn string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse datastore config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to datastore: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping datastore: %w", err)
	}

	s := &Store{pool: pool, logger: opts.Logger}
	s.Logs = &Logs{pool: pool}
	s.Experiments = &Experiments{pool: pool}
	s.Mazes = &Mazes{pool: pool}

	if !opts.SkipMigrate {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migrationV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	s.logger.Debug("schema applied")
	return nil
}

// Locker returns an advisory locker sharing the store's pool.
func (s *Store) Locker() *AdvisoryLocker {
	return NewAdvisoryLocker(s.pool, func(o *AdvisoryLockerOptions) { o.Logger = s.logger })
}

// Pool exposes the underlying pool for callers needing raw access
// (reporting queries, test fixtures).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }
