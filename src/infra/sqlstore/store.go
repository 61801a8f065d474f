// Package sqlstore persists teams, players, battles and season scores in
// SQLite or Postgres through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/infra/sqlstore/migrations"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo implements every repository over either the pool or an open
// transaction. db is nil inside a transaction.
type repo struct {
	db *sql.DB
	q  querier
	d  dialect
}

// Store is the pool-backed repository set.
type Store struct {
	repo
}

// OpenSQLite opens a SQLite database file and applies embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; transactions would otherwise contend for the file lock.
	db.SetMaxOpenConns(1)
	return open(ctx, db, sqliteDialect, "sqlite")
}

// OpenPostgres connects through the pgx stdlib driver and applies embedded
// migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return open(ctx, db, postgresDialect, "postgres")
}

func open(ctx context.Context, db *sql.DB, d dialect, root string) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.name, err)
	}
	if err := applyMigrations(ctx, db, d, migrations.FS, root); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{repo: repo{db: db, q: db, d: d}}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Within runs fn inside a database transaction, committing when fn succeeds.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, repos battles.Repositories) error) error {
	return s.atomic(ctx, func(r repo) error {
		return fn(ctx, battles.Repositories{Battles: r, Players: r, Scores: r})
	})
}

// atomic runs fn in a transaction, or directly when r already is one.
func (r repo) atomic(ctx context.Context, fn func(r repo) error) error {
	if r.db == nil {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(repo{q: tx, d: r.d}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lock returns the row lock suffix when r is a transaction.
func (r repo) lock() string {
	if r.db != nil {
		return ""
	}
	return r.d.lockSuffix
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
