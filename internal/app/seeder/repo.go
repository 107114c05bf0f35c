// Package seeder builds word stores from JSON-lines word dumps.
package seeder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// WordSink is the write side consumed by the pipeline.
// Implemented by SQLSink.
type WordSink interface {
	Prepare(ctx context.Context) error
	InsertWords(ctx context.Context, editionID int, words []domain.WordRecord) error
}

// SQLSink writes into a sqlite file or a postgres database.
type SQLSink struct {
	db     *sql.DB
	driver string
}

// OpenSink opens the output named by cfg.
func OpenSink(ctx context.Context, cfg Config) (*SQLSink, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case wordstore.DriverPgx:
		db, err = wordstore.OpenWritableDSN(ctx, wordstore.DriverPgx, cfg.DSN)
	default:
		db, err = wordstore.OpenWritable(ctx, cfg.OutputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &SQLSink{db: db, driver: cfg.Driver}, nil
}

// Prepare applies the schema migrations.
func (s *SQLSink) Prepare(ctx context.Context) error {
	return wordstore.Migrate(ctx, s.db, s.driver)
}

func (s *SQLSink) InsertWords(ctx context.Context, editionID int, words []domain.WordRecord) error {
	return wordstore.InsertWords(ctx, s.db, s.driver, editionID, words)
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}
