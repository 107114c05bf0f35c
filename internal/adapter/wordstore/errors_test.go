package wordstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline passes through", context.DeadlineExceeded, context.DeadlineExceeded},
		{"canceled passes through", fmt.Errorf("query: %w", context.Canceled), context.Canceled},
		{"closed database", errors.New("sql: database is closed"), domain.ErrInvalidHandle},
		{"postgres undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "mushaf_words" does not exist`}, domain.ErrStoreNotFound},
		{"sqlite missing table", errors.New("SQL logic error: no such table: mushaf_words (1)"), domain.ErrStoreNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mapError(tt.err, "get page words", 1)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, mapError(nil, "op", 1))
}

func TestMapError_OtherErrorsKeepCause(t *testing.T) {
	t.Parallel()

	cause := &pgconn.PgError{Code: "57014", Message: "canceling statement"}
	got := mapError(cause, "get page words", 7)

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, got, &pgErr)
	assert.NotErrorIs(t, got, domain.ErrStoreNotFound)
	assert.Contains(t, got.Error(), "page 7")
}

func TestReadOnlyDSN(t *testing.T) {
	t.Parallel()

	dsn := readOnlyDSN("/srv/data/mushaf.db")
	assert.Contains(t, dsn, "file:/srv/data/mushaf.db?")
	assert.Contains(t, dsn, "mode=ro")
	assert.Contains(t, dsn, "query_only%281%29")
}
