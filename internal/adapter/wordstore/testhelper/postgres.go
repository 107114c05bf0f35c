package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgInitErr error
)

// SetupPostgres starts a shared PostgreSQL container (once for the entire test
// run), applies the word-table migration, loads the fixture pages and returns
// the DSN. Skipped with -short.
func SetupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres mirror tests need docker")
	}

	pgOnce.Do(func() {
		pgDSN, pgInitErr = startPostgres()
	})
	if pgInitErr != nil {
		t.Fatalf("testhelper: failed to setup postgres: %v", pgInitErr)
	}
	return pgDSN
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "mushaf",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/mushaf?sslmode=disable", host, port.Port())

	db, err := wordstore.OpenWritableDSN(ctx, wordstore.DriverPgx, dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := wordstore.Migrate(ctx, db, wordstore.DriverPgx); err != nil {
		return "", err
	}
	words := append(FatihaPage(), BaqarahOpening()...)
	if err := wordstore.InsertWords(ctx, db, wordstore.DriverPgx, EditionID, words); err != nil {
		return "", err
	}

	return dsn, nil
}

