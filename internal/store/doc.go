// Package store provides SQLite-backed durable storage for the word list.
//
// The store owns a single table:
//
//	words(_id INTEGER PRIMARY KEY AUTOINCREMENT, word TEXT)
//
// # Ordering and Positions
//
// Rows have no on-disk order. Every ordered read uses ORDER BY word ASC under
// SQLite's BINARY collation. A position is a zero-based offset into that
// ordering and is recomputed on every Query call; nothing positional is
// persisted.
//
// # Schema Version
//
// The declared version is stored in PRAGMA user_version. When the persisted
// value differs from the declared one the table is dropped, recreated and
// reseeded. All previous rows are lost. There is no migration path.
//
// # Failure Semantics
//
// Word operations never return errors. A failed Insert returns InsertFailed,
// a failed Update returns UpdateFailed, and every other operation returns its
// empty or zero result. Failures are logged through the store's slog.Logger.
// Not-found is not a failure: Delete and Update report zero rows and Query
// reports found=false.
//
// # Database Configuration
//
//   - One write handle and one read-only handle, each opened lazily at most once
//   - WAL mode: readers are not blocked by the writer
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
