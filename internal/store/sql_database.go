package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/migrations"
)

// ErrorClassifier inspects driver errors.
type ErrorClassifier interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// DB wraps a database handle with its dialect and driver error classifier.
type DB struct {
	*sql.DB
	Dialect    string
	classifier ErrorClassifier
	logger     *logger.Logger
}

// NewDB wraps an already opened handle. dialect is one of
// [config.DriverPostgres] or [config.DriverSQLite].
func NewDB(conn *sql.DB, dialect string, log *logger.Logger) *DB {
	var classifier ErrorClassifier = NewPostgresErrorClassifier()
	if dialect == config.DriverSQLite {
		classifier = NewSQLiteErrorClassifier()
	}

	return &DB{
		DB:         conn,
		Dialect:    dialect,
		classifier: classifier,
		logger:     log,
	}
}

// NewConnect opens the database selected by cfg.Driver.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the embedded schema migrations for the connection dialect.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB, db.Dialect)
}
