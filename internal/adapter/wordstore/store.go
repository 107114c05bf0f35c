// Package wordstore provides read-only access to the Mushaf word table.
//
// The default backend is an embedded SQLite file opened read-only through
// modernc.org/sqlite. A hosted Postgres mirror of the same table can be used
// through the pgx driver. Queries are built with squirrel so both backends
// share one set of statements.
package wordstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

const wordsTable = "mushaf_words"

var wordColumns = []string{
	"id", "page_number", "line_number", "position", "text",
	"char_type", "class_name", "verse_id", "verse_key",
}

// Store is an open, read-only handle on the word table. It is safe for
// concurrent use; Close is idempotent and every query issued after it
// returns domain.ErrInvalidHandle.
type Store struct {
	db       *sql.DB
	driver   string
	location string
	builder  sq.StatementBuilderType

	mu     sync.RWMutex
	closed bool
}

func newStore(db *sql.DB, driver, location string) *Store {
	return &Store{
		db:       db,
		driver:   driver,
		location: location,
		builder:  sq.StatementBuilder.PlaceholderFormat(placeholderFor(driver)),
	}
}

func placeholderFor(driver string) sq.PlaceholderFormat {
	if driver == DriverPgx {
		return sq.Dollar
	}
	return sq.Question
}

// Location returns the resolved file path (sqlite) or "postgres" (pgx).
func (s *Store) Location() string {
	if s.driver == DriverPgx {
		return "postgres"
	}
	return s.location
}

// Driver returns the database/sql driver name.
func (s *Store) Driver() string { return s.driver }

// GetPageWords returns every word of the page for the given edition ordered by
// (line_number, position). An edition without rows for the page yields an
// empty slice, not an error.
func (s *Store) GetPageWords(ctx context.Context, editionID, page int) ([]domain.WordRecord, error) {
	if err := s.rlock(); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	query, args, err := s.builder.
		Select(wordColumns...).
		From(wordsTable).
		Where(sq.Eq{"mushaf_id": editionID, "page_number": page}).
		OrderBy("line_number", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page words query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "get page words", page)
	}
	defer rows.Close()

	words := []domain.WordRecord{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, mapError(err, "scan page words", page)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "get page words", page)
	}

	return words, nil
}

// GetPageSummary returns the verse range touched by the page, or nil when the
// page has no verse-bearing rows under the edition.
func (s *Store) GetPageSummary(ctx context.Context, editionID, page int) (*domain.PageSummary, error) {
	if err := s.rlock(); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	query, args, err := s.builder.
		Select("MIN(verse_id)", "MAX(verse_id)", "COUNT(DISTINCT verse_id)").
		From(wordsTable).
		Where(sq.Eq{"mushaf_id": editionID, "page_number": page}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page summary query: %w", err)
	}

	var first, last sql.NullInt64
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&first, &last, &count); err != nil {
		return nil, mapError(err, "get page summary", page)
	}

	return toSummary(first, last, count), nil
}

// GetPageSummaries is the batched form of GetPageSummary. Pages without
// verse-bearing rows are absent from the returned map.
func (s *Store) GetPageSummaries(ctx context.Context, editionID int, pages []int) (map[int]*domain.PageSummary, error) {
	out := make(map[int]*domain.PageSummary, len(pages))
	if len(pages) == 0 {
		return out, nil
	}

	if err := s.rlock(); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	query, args, err := s.builder.
		Select("page_number", "MIN(verse_id)", "MAX(verse_id)", "COUNT(DISTINCT verse_id)").
		From(wordsTable).
		Where(sq.Eq{"mushaf_id": editionID, "page_number": pages}).
		GroupBy("page_number").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page summaries query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "get page summaries", pages[0])
	}
	defer rows.Close()

	for rows.Next() {
		var page int
		var first, last sql.NullInt64
		var count int64
		if err := rows.Scan(&page, &first, &last, &count); err != nil {
			return nil, mapError(err, "scan page summaries", pages[0])
		}
		if sum := toSummary(first, last, count); sum != nil {
			out[page] = sum
		}
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "get page summaries", pages[0])
	}

	return out, nil
}

// Ping checks that the handle is open and the backend answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rlock(); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	if err := s.db.PingContext(ctx); err != nil {
		return mapError(err, "ping", 0)
	}
	return nil
}

// Close releases the underlying database handle. Safe to call repeatedly.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsClosed reports whether Close has been called.
func (s *Store) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// rlock takes the read lock and fails with ErrInvalidHandle on a closed or
// zero-value store. On success the caller must release s.mu.RUnlock.
func (s *Store) rlock() error {
	if s == nil {
		return domain.ErrInvalidHandle
	}
	s.mu.RLock()
	if s.closed || s.db == nil {
		s.mu.RUnlock()
		return domain.ErrInvalidHandle
	}
	return nil
}

// checkSchema fails fast when the word table is missing.
func (s *Store) checkSchema(ctx context.Context) error {
	query, args, err := s.builder.Select("1").From(wordsTable).Limit(1).ToSql()
	if err != nil {
		return fmt.Errorf("build schema probe: %w", err)
	}
	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return mapError(err, "probe schema", 0)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (domain.WordRecord, error) {
	var (
		w         domain.WordRecord
		charType  string
		className sql.NullString
		verseID   sql.NullInt64
		verseKey  sql.NullString
	)
	if err := row.Scan(&w.ID, &w.PageNumber, &w.LineNumber, &w.Position, &w.Text,
		&charType, &className, &verseID, &verseKey); err != nil {
		return domain.WordRecord{}, err
	}

	w.CharType = domain.CharType(charType)
	if className.Valid {
		v := className.String
		w.ClassName = &v
	}
	if verseID.Valid {
		v := int(verseID.Int64)
		w.VerseID = &v
	}
	if verseKey.Valid {
		v := verseKey.String
		w.VerseKey = &v
	}
	return w, nil
}

func toSummary(first, last sql.NullInt64, count int64) *domain.PageSummary {
	if !first.Valid || !last.Valid || count == 0 {
		return nil
	}
	return &domain.PageSummary{
		FirstVerseID: int(first.Int64),
		LastVerseID:  int(last.Int64),
		VerseCount:   int(count),
	}
}
