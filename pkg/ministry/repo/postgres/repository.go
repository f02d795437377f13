package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Table names. Each table holds one JSONB document per record.
const (
	RegistrationsTable = "registrations"
	PostsTable         = "posts"
	EventsTable        = "events"
)

// Repository implements ministry.Repository using PostgreSQL
type Repository struct {
	db   DBTX
	pool *pgxpool.Pool

	registrations *collection[ministry.Registration]
	posts         *collection[ministry.Post]
	events        *collection[ministry.Event]
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{
		db:            db,
		registrations: newCollection[ministry.Registration](db, RegistrationsTable),
		posts:         newCollection[ministry.Post](db, PostsTable),
		events:        newCollection[ministry.Event](db, EventsTable),
	}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	r := New(pool)
	r.pool = pool
	return r
}

// Connect opens a connection pool for databaseURL and verifies it
func Connect(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewWithPool(pool), nil
}

// EnsureSchema creates the document tables and their indexes
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, table := range []string{RegistrationsTable, PostsTable, EventsTable} {
		stmt := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				seq BIGSERIAL NOT NULL,
				doc JSONB NOT NULL
			)`, pgx.Identifier{table}.Sanitize())
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return handlePostgresError(table, "ensure schema", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS posts_seq_idx ON posts (seq)`,
		`CREATE INDEX IF NOT EXISTS events_date_idx ON events ((doc->>'date'))`,
	}
	for _, stmt := range indexes {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return handlePostgresError("", "ensure schema", err)
		}
	}
	return nil
}

func (r *Repository) Registrations() ministry.Collection[ministry.Registration] {
	return r.registrations
}

func (r *Repository) Posts() ministry.Collection[ministry.Post] {
	return r.posts
}

func (r *Repository) Events() ministry.Collection[ministry.Event] {
	return r.events
}

func (r *Repository) Ping(ctx context.Context) error {
	if r.pool != nil {
		return r.pool.Ping(ctx)
	}
	var one int
	return r.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (r *Repository) Close(ctx context.Context) error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// Error handling helper
func handlePostgresError(table, operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			err = fmt.Errorf("duplicate entry: %w", err)
		case "23502": // not_null_violation
			err = fmt.Errorf("required field %s is missing: %w", pgErr.ColumnName, err)
		case "42P01": // undefined_table
			err = fmt.Errorf("table does not exist - schema setup required: %w", err)
		case "22007", "22008": // invalid_datetime_format, datetime_field_overflow
			err = fmt.Errorf("stored document has an invalid timestamp: %w", err)
		}
	}
	return &ministry.StorageError{Collection: table, Op: operation, Err: err}
}
