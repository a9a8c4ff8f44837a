package store

import (
	"context"
	"database/sql"
	"errors"
)

// Sentinels returned by the write operations when the write could not be made.
const (
	InsertFailed int64 = -1
	UpdateFailed int64 = -1
)

// Word is one row of the words table.
type Word struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Query returns the word at the zero-based position of the ascending listing.
// Returns found=false when position is negative, out of range, or the read fails.
func (s *Store) Query(ctx context.Context, position int) (Word, bool) {
	if position < 0 {
		return Word{}, false
	}
	db, err := s.readable(ctx)
	if err != nil {
		s.fail("query", err, "position", position)
		return Word{}, false
	}

	var (
		w    Word
		text sql.NullString
	)
	err = db.QueryRowContext(ctx, `
		SELECT _id, word
		FROM words
		ORDER BY word ASC
		LIMIT 1 OFFSET ?
	`, position).Scan(&w.ID, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, false
	}
	if err != nil {
		s.fail("query", err, "position", position)
		return Word{}, false
	}
	w.Text = text.String
	return w, true
}

// Insert adds a word and returns its id, or InsertFailed.
func (s *Store) Insert(ctx context.Context, text string) int64 {
	db, err := s.writable(ctx)
	if err != nil {
		s.fail("insert", err, "text", text)
		return InsertFailed
	}

	s.warnDenormalized("insert", text)
	res, err := db.ExecContext(ctx, `INSERT INTO words (word) VALUES (?)`, text)
	if err != nil {
		s.fail("insert", err, "text", text)
		return InsertFailed
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.fail("insert", err, "text", text)
		return InsertFailed
	}
	return id
}

// Count returns the number of stored words, or 0 when the read fails.
func (s *Store) Count(ctx context.Context) int64 {
	db, err := s.readable(ctx)
	if err != nil {
		s.fail("count", err)
		return 0
	}

	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		s.fail("count", err)
		return 0
	}
	return n
}

// Delete removes the word with the given id and returns the number of rows
// removed. An unknown id is a no-op that returns 0.
func (s *Store) Delete(ctx context.Context, id int64) int64 {
	db, err := s.writable(ctx)
	if err != nil {
		s.fail("delete", err, "id", id)
		return 0
	}

	res, err := db.ExecContext(ctx, `DELETE FROM words WHERE _id = ?`, id)
	if err != nil {
		s.fail("delete", err, "id", id)
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.fail("delete", err, "id", id)
		return 0
	}
	return n
}

// Update replaces the text of the word with the given id and returns the
// number of rows updated (0 for an unknown id), or UpdateFailed.
func (s *Store) Update(ctx context.Context, id int64, text string) int64 {
	db, err := s.writable(ctx)
	if err != nil {
		s.fail("update", err, "id", id)
		return UpdateFailed
	}

	s.warnDenormalized("update", text)
	res, err := db.ExecContext(ctx, `UPDATE words SET word = ? WHERE _id = ?`, text, id)
	if err != nil {
		s.fail("update", err, "id", id)
		return UpdateFailed
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.fail("update", err, "id", id)
		return UpdateFailed
	}
	return n
}

// Search returns the text of every word containing substring.
// Matching follows SQLite LIKE (ASCII case-insensitive); wildcard characters
// in substring match literally. Results are unordered. An empty substring
// matches every row.
func (s *Store) Search(ctx context.Context, substring string) []string {
	out := []string{}
	db, err := s.readable(ctx)
	if err != nil {
		s.fail("search", err, "substring", substring)
		return out
	}

	pattern := "%" + escapeLike(substring) + "%"
	rows, err := db.QueryContext(ctx, `SELECT word FROM words WHERE word LIKE ? ESCAPE '\'`, pattern)
	if err != nil {
		s.fail("search", err, "substring", substring)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var text sql.NullString
		if err := rows.Scan(&text); err != nil {
			s.fail("search", err, "substring", substring)
			return []string{}
		}
		out = append(out, text.String)
	}
	if err := rows.Err(); err != nil {
		s.fail("search", err, "substring", substring)
		return []string{}
	}
	return out
}

// List returns every word in ascending order, the same ordering Query indexes.
func (s *Store) List(ctx context.Context) []Word {
	out := []Word{}
	db, err := s.readable(ctx)
	if err != nil {
		s.fail("list", err)
		return out
	}

	rows, err := db.QueryContext(ctx, `SELECT _id, word FROM words ORDER BY word ASC`)
	if err != nil {
		s.fail("list", err)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var (
			w    Word
			text sql.NullString
		)
		if err := rows.Scan(&w.ID, &text); err != nil {
			s.fail("list", err)
			return []Word{}
		}
		w.Text = text.String
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		s.fail("list", err)
		return []Word{}
	}
	return out
}
