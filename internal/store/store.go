package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/erazemk/zbirka/internal/barcode"
	"github.com/erazemk/zbirka/internal/db"
)

// Store keeps active and sold items in a SQLite database. It is meant for a
// single caller issuing one operation at a time.
type Store struct {
	db       *sql.DB
	identify func() string
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIdentifiers sets the function minting identifiers for new items.
func WithIdentifiers(fn func() string) Option {
	return func(s *Store) { s.identify = fn }
}

// WithClock sets the time source for dateAdded and soldDate.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for successful mutations.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a Store backed by an already migrated database.
func New(database *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:       database,
		identify: barcode.Generate,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database at path, applies migrations and returns a Store
// owning the connection. Callers must Close it.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Migrate(ctx, database); err != nil {
		return nil, multierr.Append(err, database.Close())
	}

	return New(database, opts...), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// withTx runs fn in a transaction, committing if fn returns nil and rolling
// back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierr.Append(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// mintID reserves a new id from the sequence shared by both collections.
func mintID(ctx context.Context, tx *sql.Tx) (int64, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO record_ids DEFAULT VALUES`)
	if err != nil {
		return 0, fmt.Errorf("minting id: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting minted id: %w", err)
	}
	return id, nil
}

// storageErr wraps err as a StorageError unless it already carries a
// classified error.
func storageErr(op string, id int64, err error) error {
	var notFound *NotFoundError
	var invalid *ValidationError
	if errors.As(err, &notFound) || errors.As(err, &invalid) {
		return err
	}
	return &StorageError{Op: op, ID: id, Err: err}
}

type scanner interface {
	Scan(dest ...any) error
}
