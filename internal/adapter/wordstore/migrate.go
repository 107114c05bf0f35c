package wordstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// insertChunk bounds the rows per INSERT statement (sqlite caps bind variables).
const insertChunk = 80

// Migrate applies the embedded schema migrations to db.
// Stores opened through a Registry are read-only; Migrate is for building them.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dialect := goose.DialectSQLite3
	if driver == DriverPgx {
		dialect = goose.DialectPostgres
	}

	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// OpenWritable opens a SQLite file for building, creating it if needed.
func OpenWritable(ctx context.Context, path string) (*sql.DB, error) {
	return OpenWritableDSN(ctx, DriverSQLite, "file:"+path)
}

// OpenWritableDSN opens a read-write connection for seeding either backend.
func OpenWritableDSN(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	return db, nil
}

// InsertWords writes words for one edition in a single transaction.
// Every word must satisfy the page/line/char-type constraints.
func InsertWords(ctx context.Context, db *sql.DB, driver string, editionID int, words []domain.WordRecord) error {
	for _, w := range words {
		if !w.CharType.IsValid() {
			return domain.NewValidationError("char_type", fmt.Sprintf("word %d: unknown char type %q", w.ID, w.CharType))
		}
		if err := domain.CheckPageNumber(w.PageNumber); err != nil {
			return fmt.Errorf("word %d: %w", w.ID, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	builder := sq.StatementBuilder.PlaceholderFormat(placeholderFor(driver))
	for start := 0; start < len(words); start += insertChunk {
		end := min(start+insertChunk, len(words))

		ins := builder.Insert(wordsTable).
			Columns(append([]string{"mushaf_id"}, wordColumns...)...)
		for _, w := range words[start:end] {
			ins = ins.Values(editionID, w.ID, w.PageNumber, w.LineNumber, w.Position, w.Text,
				string(w.CharType), w.ClassName, w.VerseID, w.VerseKey)
		}

		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert words %d..%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
