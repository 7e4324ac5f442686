// Package repository implements the PostgreSQL data store for accounts and
// conference applications. It provides creation, reading, updating and
// deletion of records, plus an atomic unit of work used by the registration
// and deletion flows.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// e.g. a second application for an already registered email.
var ErrDuplicate = errors.New("duplicate record")

// Queries implements the repository methods over either a plain connection
// or an open transaction.
type Queries struct {
	db dbtx
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage encapsulates the PostgreSQL connection and exposes the repository
// methods plus the transactional unit of work.
type Storage struct {
	*Queries
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		Queries: &Queries{db: db},
		DB:      db,
	}, nil
}

// RunInTx executes fn inside a single database transaction. fn receives a
// *Queries bound to the transaction; when fn returns an error, or the
// surrounding context is cancelled before commit, every write made by fn is
// rolled back.
func (s *Storage) RunInTx(ctx context.Context, fn func(q *Queries) error) error {
	const op = "storage.RunInTx"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&Queries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckDatabaseReady verifies that the schema has been migrated.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'applications'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table applications missing or query error: %w", err)
	}
	return nil
}

// wrapWriteErr maps postgres unique violations to ErrDuplicate so callers
// can treat a duplicate-key race the same as a failed pre-check.
func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
