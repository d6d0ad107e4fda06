// Package storage persists the name list in a local SQLite database.
//
// Every operation runs inside a Scope: the database is opened, a
// transaction is started, and on exit the transaction is committed (or
// rolled back on error) and the connection is closed.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Querier is the subset of *sql.Tx handed to a scope.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a handle on the SQLite database at a fixed path.
// It holds no open connection between scopes.
type Store struct {
	path    string
	logger  *zap.Logger
	notices io.Writer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotices sets where user-facing notices (rollbacks, commit failures)
// are written.
func WithNotices(w io.Writer) Option {
	return func(s *Store) {
		if w != nil {
			s.notices = w
		}
	}
}

// New returns a Store for the database at path. Nothing is opened until
// the first Scope.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  zap.NewNop(),
		notices: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Scope opens the database, runs fn inside a transaction and releases the
// connection on every exit path.
//
// If fn returns an error (or panics) the transaction is rolled back, a
// notice is written, and the original error is returned (or the panic
// resumed). If the commit fails the failure is reported and returned as a
// *StorageError. An unopenable database yields a *ConnectionError.
func (s *Store) Scope(ctx context.Context, fn func(q Querier) error) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			s.logger.Warn("closing database", zap.String("path", s.path), zap.Error(cerr))
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "beginning transaction", Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			s.rollback(tx, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		s.rollback(tx, err)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Warn("commit failed", zap.String("path", s.path), zap.Error(err))
		fmt.Fprintf(s.notices, "Commit error: %v\n", err)
		return &StorageError{Op: "committing", Err: err}
	}
	s.logger.Debug("committed", zap.String("path", s.path))
	return nil
}

// open opens and pings the database so that a bad path is reported here
// rather than at the first statement.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	s.logger.Debug("opening database", zap.String("path", s.path))

	db, err := sql.Open(DriverName, s.path)
	if err != nil {
		return nil, &ConnectionError{Path: s.path, Err: err}
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Path: s.path, Err: err}
	}
	return db, nil
}

func (s *Store) rollback(tx *sql.Tx, cause error) {
	if err := tx.Rollback(); err != nil {
		s.logger.Warn("rollback failed", zap.Error(err), zap.NamedError("cause", cause))
	} else {
		s.logger.Debug("rolled back", zap.Error(cause))
	}
	fmt.Fprintf(s.notices, "Error occurred (%v). Changes were rolled back.\n", cause)
}
