// Package pg implements the repository interfaces over PostgreSQL via
// the pgx stdlib driver. One *sql.DB is shared by every repository and
// by the migration runner.
package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgErrUniqueViolation = "23505"

// Store bundles the repositories sharing a connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL and tunes the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection (tests use sqlmock here).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for readiness pings and migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Users returns the credential repository.
func (s *Store) Users() *UserRepo { return &UserRepo{db: s.db} }

// Students returns the student repository.
func (s *Store) Students() *StudentRepo { return &StudentRepo{db: s.db} }

// Todos returns the todo repository.
func (s *Store) Todos() *TodoRepo { return &TodoRepo{db: s.db} }

// Audit returns the audit trail repository.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{db: s.db} }

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == pgErrUniqueViolation
}
