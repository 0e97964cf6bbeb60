// Package database opens the PostgreSQL connection and applies schema
// migrations embedded in the binary.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Options controls how the connection is established.
type Options struct {
	// URL is the PostgreSQL connection string.
	URL string
	// WaitForReady retries the initial ping until the database answers
	// instead of failing on the first refused connection.
	WaitForReady bool
	// WaitTimeout bounds the retry loop. Zero means 30 seconds.
	WaitTimeout time.Duration
}

// Open connects to PostgreSQL, optionally waiting for the server to come
// up, and applies any pending migrations.
func Open(ctx context.Context, opts Options, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", opts.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ping(ctx, db, opts, log); err != nil {
		db.Close()
		return nil, err
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB, opts Options, log *logger.Logger) error {
	if !opts.WaitForReady {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		return nil
	}

	timeout := opts.WaitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	deadline := time.Now().Add(timeout)

	var err error
	for {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database not ready after %s: %w", timeout, err)
		}
		log.WithError(err).Warn("Database not ready, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// Migrate applies all pending schema migrations.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
