package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

const (
	maxOpenConns = 20
	maxIdleConns = 10

	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// Open connects to Postgres, configures the pool, and verifies connectivity
// with bounded retries.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	if err := withRetry(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// schema is applied idempotently at startup. The hostings primary key is the
// storage-level guarantee against duplicate registrations under races.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		name TEXT PRIMARY KEY,
		default_fee NUMERIC(10,2) NOT NULL CHECK (default_fee >= 0),
		default_max_capacity INT NOT NULL CHECK (default_max_capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY CHECK (user_id ~ '^U[0-9]{3}$'),
		email TEXT NOT NULL UNIQUE,
		department TEXT NOT NULL REFERENCES departments(name),
		events_hosted INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS credentials (
		user_id TEXT PRIMARY KEY REFERENCES users(user_id),
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		account_type TEXT NOT NULL CHECK (account_type IN ('attendee', 'host', 'admin'))
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		event_id TEXT PRIMARY KEY CHECK (event_id ~ '^E[0-9]{3}$'),
		date DATE NOT NULL,
		time TIME NOT NULL,
		department TEXT NOT NULL REFERENCES departments(name),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS hostings (
		event_id TEXT NOT NULL REFERENCES events(event_id),
		user_id TEXT NOT NULL REFERENCES users(user_id),
		role TEXT NOT NULL CHECK (role IN ('creator', 'attendee')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_hostings_user ON hostings (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date, time)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// withRetry re-runs fn for transient connection failures with exponential
// backoff. Business-rule errors pass through untouched; after the final
// attempt the error is wrapped in domain.ErrUnavailable.
func withRetry(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

// isTransient reports whether err looks like a connection-level failure worth
// retrying, as opposed to a terminal query or constraint error.
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions.
		return strings.HasPrefix(string(pqErr.Code), "08")
	}
	return false
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
