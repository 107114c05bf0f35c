package wordstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// Postgres SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// mapError converts driver errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func mapError(err error, op string, page int) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s page %d: %w", op, page, err)
	}

	// database/sql does not export its "database is closed" error.
	if strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%s page %d: %w", op, page, domain.ErrInvalidHandle)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrStoreNotFound)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
			return fmt.Errorf("%s: %v: %w", op, liteErr, domain.ErrStoreNotFound)
		}
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreNotFound)
	}

	return fmt.Errorf("%s page %d: %w", op, page, err)
}
