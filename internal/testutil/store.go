// Package testutil holds helpers shared by tests of packages that sit on top
// of the word store.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/wordlist/internal/store"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DBPath returns a database path inside a fresh test temp directory.
func DBPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "words.db")
}

// OpenStore creates a store in a fresh temp directory. Logs are discarded
// unless opts supply a logger. The store is closed on test cleanup.
func OpenStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithLogger(DiscardLogger())}, opts...)
	s := store.New(DBPath(t), opts...)
	t.Cleanup(func() { s.Close() })
	return s
}
