package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultVersion is the schema version declared by this build.
// Changing it drops and recreates the words table on the next open.
const DefaultVersion = 1

// ErrClosed is returned when a handle is requested after Close.
var ErrClosed = errors.New("store is closed")

// Store provides durable storage for the word list.
//
// Handles are acquired lazily: the write handle on the first operation of any
// kind (it also prepares the schema), the read handle on the first read.
// Both are reused until Close.
type Store struct {
	path    string
	version int
	seed    []string
	logger  *slog.Logger

	mu      sync.Mutex
	writeDB *sql.DB
	readDB  *sql.DB
	closed  bool
}

// Option configures a Store.
type Option func(*Store)

// WithVersion sets the declared schema version. Values below 1 are ignored.
func WithVersion(version int) Option {
	return func(s *Store) {
		if version >= 1 {
			s.version = version
		}
	}
}

// WithSeed replaces the words inserted when the table is created.
// A nil slice keeps DefaultSeed; an empty non-nil slice seeds nothing.
func WithSeed(words []string) Option {
	return func(s *Store) {
		if words != nil {
			s.seed = append([]string(nil), words...)
		}
	}
}

// WithLogger sets the logger used for lifecycle events and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store for the database at path.
// Nothing is opened until the first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		version: DefaultVersion,
		seed:    DefaultSeed(),
		logger:  slog.Default(),
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

// Close releases both handles. Safe to call multiple times.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
		s.readDB = nil
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
		s.writeDB = nil
	}
	return errors.Join(errs...)
}

// Version returns the schema version persisted in the database.
func (s *Store) Version(ctx context.Context) (int, error) {
	db, err := s.readable(ctx)
	if err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// Reset drops the words table, recreates it and inserts the seed list again.
func (s *Store) Reset(ctx context.Context) error {
	db, err := s.writable(ctx)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.logger.Warn("resetting word table, which will destroy all old data", "path", s.path)
	if err := s.recreate(ctx, db); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// writable returns the write handle, opening and preparing it on first use.
func (s *Store) writable(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writableLocked(ctx)
}

func (s *Store) writableLocked(ctx context.Context) (*sql.DB, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.writeDB != nil {
		return s.writeDB, nil
	}

	db, err := openHandle(ctx, s.path, false)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s.writeDB = db
	return db, nil
}

// readable returns the read handle. The write handle is prepared first so
// the database file and schema exist before a read-only open.
func (s *Store) readable(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readDB != nil && !s.closed {
		return s.readDB, nil
	}
	if _, err := s.writableLocked(ctx); err != nil {
		return nil, err
	}

	db, err := openHandle(ctx, s.path, true)
	if err != nil {
		return nil, err
	}
	s.readDB = db
	return db, nil
}

// fileURI returns the SQLite URI for path opened with the given mode.
// The path is made absolute and percent-encoded so '#', '?' and '%' in
// directory names name the same file for both handles.
func fileURI(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Path: abs, RawQuery: "mode=" + mode}
	return u.String(), nil
}

// openHandle opens a single-connection handle to path.
func openHandle(ctx context.Context, path string, readOnly bool) (*sql.DB, error) {
	mode := "rwc"
	if readOnly {
		mode = "ro"
	}
	dsn, err := fileURI(path, mode)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection per handle: the store owns exactly one reader and one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db, readOnly); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	return db, nil
}

// applyPragmas sets required SQLite configuration.
// journal_mode is persistent, so only the writer sets it.
func applyPragmas(ctx context.Context, db *sql.DB, readOnly bool) error {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if !readOnly {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// prepare compares the persisted user_version with the declared version and
// recreates the table when they differ. A fresh database reports version 0.
func (s *Store) prepare(ctx context.Context, db *sql.DB) error {
	var persisted int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&persisted); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	switch persisted {
	case s.version:
		return nil
	case 0:
		s.logger.Info("creating word table", "path", s.path, "version", s.version, "seed", len(s.seed))
	default:
		s.logger.Warn("upgrading database, which will destroy all old data",
			"path", s.path,
			"from", persisted,
			"to", s.version,
		)
	}
	return s.recreate(ctx, db)
}

// recreate drops the table, applies the schema, inserts the seed list and
// stamps the declared version in one transaction.
func (s *Store) recreate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recreate: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS words"); err != nil {
		return fmt.Errorf("recreate: drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("recreate: failed to execute schema: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO words (word) VALUES (?)")
	if err != nil {
		return fmt.Errorf("recreate: prepare seed insert: %w", err)
	}
	defer stmt.Close()
	for _, word := range s.seed {
		if _, err := stmt.ExecContext(ctx, word); err != nil {
			return fmt.Errorf("recreate: seed %q: %w", word, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", s.version)); err != nil {
		return fmt.Errorf("recreate: set user_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recreate: commit: %w", err)
	}
	return nil
}

// fail records an operation failure. Callers return their degraded result.
func (s *Store) fail(op string, err error, attrs ...any) {
	s.logger.Error("word store operation failed", append([]any{"op", op, "error", err}, attrs...)...)
}
