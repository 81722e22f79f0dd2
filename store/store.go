package store

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"github.com/teatak/hanseg/dictionary"
	"github.com/teatak/hanseg/util"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl string

var logger = util.Logger

// UserWord is a dictionary change made at runtime. A deleted word is kept
// as a tombstone so that replay removes it again.
type UserWord struct {
	Word      string    `json:"word"`
	Freq      uint64    `json:"freq"`
	Tag       string    `json:"tag,omitempty"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WordEditor applies user words to a dictionary; *segmenter.Segmenter is one.
type WordEditor interface {
	AddWord(word string, freq int64, tag string) error
	DeleteWord(word string)
}

// Store keeps user words in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertWord = `
INSERT INTO user_words (word, freq, tag, deleted, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (word) DO UPDATE SET
    freq = excluded.freq,
    tag = excluded.tag,
    deleted = excluded.deleted,
    updated_at = excluded.updated_at`

// Put records added words in one transaction.
func (s *Store) Put(ctx context.Context, entries ...dictionary.Entry) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertWord)
		if err != nil {
			return errors.Wrap(err, "prepare upsert")
		}
		defer stmt.Close()
		now := s.now().UnixNano()
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.Word, int64(e.Freq), e.Tag, 0, now); err != nil {
				return errors.Wrapf(err, "put %q", e.Word)
			}
		}
		return nil
	})
}

// Delete records a deleted word.
func (s *Store) Delete(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx, upsertWord, word, 0, "", 1, s.now().UnixNano())
	return errors.Wrapf(err, "delete %q", word)
}

// Get returns the record of word.
func (s *Store) Get(ctx context.Context, word string) (*UserWord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT word, freq, tag, deleted, updated_at FROM user_words WHERE word = ?`, word)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %q", word)
	}
	return w, true, nil
}

// List returns every record in the order the changes were made.
func (s *Store) List(ctx context.Context) ([]UserWord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, freq, tag, deleted, updated_at FROM user_words ORDER BY updated_at, word`)
	if err != nil {
		return nil, errors.Wrap(err, "list user words")
	}
	defer rows.Close()

	var words []UserWord
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user word")
		}
		words = append(words, *w)
	}
	return words, errors.Wrap(rows.Err(), "list user words")
}

// Replay applies every record to editor in order and returns how many were
// applied. Words the editor rejects are logged and skipped.
func (s *Store) Replay(ctx context.Context, editor WordEditor) (int, error) {
	words, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, w := range words {
		if w.Deleted {
			editor.DeleteWord(w.Word)
			applied++
			continue
		}
		if err := editor.AddWord(w.Word, int64(w.Freq), w.Tag); err != nil {
			logger.WithError(err).WithField("word", w.Word).Warn("Skipping stored user word")
			continue
		}
		applied++
	}
	return applied, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(row scanner) (*UserWord, error) {
	var (
		w       UserWord
		freq    int64
		deleted int64
		updated int64
	)
	if err := row.Scan(&w.Word, &freq, &w.Tag, &deleted, &updated); err != nil {
		return nil, err
	}
	w.Freq = uint64(freq)
	w.Deleted = deleted != 0
	w.UpdatedAt = time.Unix(0, updated)
	return &w, nil
}
