package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore/testhelper"
	"github.com/heartmarshall/mushaf-layout/internal/config"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

func testAppConfig(storePath, remoteURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ShutdownTimeout: time.Second},
		Store: config.StoreConfig{
			Enabled:          storePath != "",
			Driver:           "sqlite",
			Path:             storePath,
			EditionID:        testhelper.EditionID,
			MaxOpenConns:     2,
			SummaryBatchWait: time.Millisecond,
		},
		Remote: config.RemoteConfig{
			Enabled:            remoteURL != "",
			BaseURL:            remoteURL,
			MushafID:           1,
			Timeout:            time.Second,
			RateLimitPerMinute: 1,
		},
		Log:  config.LogConfig{Level: "error", Format: "json"},
		CORS: config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,OPTIONS", MaxAge: 60},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "10.0.0.1:5000"
	h.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestApp_LocalPage(t *testing.T) {
	path := testhelper.NewSQLiteStore(t, append(testhelper.FatihaPage(), testhelper.BaqarahOpening()...))

	a, err := New(context.Background(), testAppConfig(path, ""), discardLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec, body := get(t, a.Handler(), "/api/v1/pages/1?width=700")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "local", body["source"])
	assert.Equal(t, "wide", body["breakpoint"])
	assert.Len(t, body["lines"], domain.LinesPerPage)

	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["firstVerseId"])
	assert.EqualValues(t, 7, summary["lastVerseId"])
	assert.EqualValues(t, 7, summary["verseCount"])

	rec, _ = get(t, a.Handler(), "/api/v1/pages/605")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, a.Handler(), "/api/v1/pages/77")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, a.Handler(), "/api/v1/pages/1?source=remote")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, body = get(t, a.Handler(), "/api/v1/spreads/2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, body, "right")

	rec, body = get(t, a.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestApp_RemoteOnlyWhenStoreMissing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verses": [{"id": 8, "verse_key": "2:1", "words": [
			{"id": 30, "text_uthmani": "الٓمٓ", "char_type_name": "word", "line_number": 3, "page_number": 2}
		]}]}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := testAppConfig("", upstream.URL)
	cfg.Store.Enabled = true
	cfg.Store.Candidates = []string{t.TempDir() + "/absent.db"}

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec, body := get(t, a.Handler(), "/api/v1/pages/2?fallback=true")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "remote", body["source"])

	// Remote-bound requests share a budget of one per minute.
	rec, _ = get(t, a.Handler(), "/api/v1/pages/2?source=remote")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Local-only requests are not limited; without a store they report 503.
	rec, _ = get(t, a.Handler(), "/api/v1/pages/2")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, body = get(t, a.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestApp_NoSourceFails(t *testing.T) {
	cfg := testAppConfig("", "")
	cfg.Store.Enabled = true
	cfg.Store.Candidates = []string{t.TempDir() + "/absent.db"}

	_, err := New(context.Background(), cfg, discardLogger())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	path := testhelper.NewSQLiteStore(t, testhelper.FatihaPage())
	cfg := testAppConfig(path, "")
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
