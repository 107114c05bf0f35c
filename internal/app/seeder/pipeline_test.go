package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore/testhelper"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

type mockSink struct {
	PrepareFunc     func(ctx context.Context) error
	InsertWordsFunc func(ctx context.Context, editionID int, words []domain.WordRecord) error
}

func (m *mockSink) Prepare(ctx context.Context) error {
	if m.PrepareFunc != nil {
		return m.PrepareFunc(ctx)
	}
	return nil
}

func (m *mockSink) InsertWords(ctx context.Context, editionID int, words []domain.WordRecord) error {
	if m.InsertWordsFunc != nil {
		return m.InsertWordsFunc(ctx, editionID, words)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type dumpRow struct {
	ID         int64   `json:"id"`
	PageNumber int     `json:"page_number"`
	LineNumber int     `json:"line_number"`
	Position   int     `json:"position"`
	Text       string  `json:"text"`
	CharType   string  `json:"char_type"`
	ClassName  *string `json:"class_name,omitempty"`
	VerseID    *int    `json:"verse_id,omitempty"`
	VerseKey   *string `json:"verse_key,omitempty"`
}

// writeDump writes words as a JSON-lines file in reverse order, plus any
// extra raw lines, and returns its path.
func writeDump(t *testing.T, words []domain.WordRecord, extra ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		require.NoError(t, enc.Encode(dumpRow{
			ID: w.ID, PageNumber: w.PageNumber, LineNumber: w.LineNumber, Position: w.Position,
			Text: w.Text, CharType: string(w.CharType), ClassName: w.ClassName,
			VerseID: w.VerseID, VerseKey: w.VerseKey,
		}))
	}
	for _, line := range extra {
		_, err := f.WriteString(line + "\n")
		require.NoError(t, err)
	}
	return path
}

func fixtureWords() []domain.WordRecord {
	return append(testhelper.FatihaPage(), testhelper.BaqarahOpening()...)
}

func TestPipeline_InsertsSortedWords(t *testing.T) {
	t.Parallel()
	words := fixtureWords()
	path := writeDump(t, words)

	var (
		prepared bool
		got      []domain.WordRecord
		edition  int
	)
	sink := &mockSink{
		PrepareFunc: func(_ context.Context) error { prepared = true; return nil },
		InsertWordsFunc: func(_ context.Context, e int, w []domain.WordRecord) error {
			edition, got = e, w
			return nil
		},
	}

	p := NewPipeline(discardLogger(), sink, Config{InputPath: path, EditionID: 3})
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, prepared)
	assert.Equal(t, 3, edition)
	assert.Equal(t, len(words), res.Inserted)
	assert.Equal(t, 2, res.Pages)
	assert.Empty(t, res.Anomalies)
	require.Len(t, got, len(words))
	for i := range words {
		assert.Equal(t, words[i].ID, got[i].ID, "words are written in page/line/position order")
	}
}

func TestPipeline_DryRunWritesNothing(t *testing.T) {
	t.Parallel()
	path := writeDump(t, testhelper.FatihaPage())

	sink := &mockSink{
		PrepareFunc: func(_ context.Context) error {
			t.Fatal("Prepare must not be called on a dry run")
			return nil
		},
	}

	res, err := NewPipeline(discardLogger(), sink, Config{InputPath: path, EditionID: 1, DryRun: true}).
		Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Pages)
}

func TestPipeline_RejectsPageWithGap(t *testing.T) {
	t.Parallel()
	words := testhelper.FatihaPage()
	// Drop the second word of line 2, leaving a position gap.
	var gapped []domain.WordRecord
	for i, w := range words {
		if w.LineNumber == 2 && w.Position == 1 {
			continue
		}
		gapped = append(gapped, words[i])
	}
	path := writeDump(t, gapped)

	sink := &mockSink{
		InsertWordsFunc: func(context.Context, int, []domain.WordRecord) error {
			t.Fatal("InsertWords must not be called for an anomalous dump")
			return nil
		},
	}

	res, err := NewPipeline(discardLogger(), sink, Config{InputPath: path, EditionID: 1}).Run(context.Background())
	require.ErrorIs(t, err, ErrDumpRejected)
	require.Len(t, res.Anomalies, 1)
	assert.Contains(t, res.Anomalies[0], "page 1 line 2")
}

func TestPipeline_MalformedLines(t *testing.T) {
	t.Parallel()
	path := writeDump(t, testhelper.FatihaPage(), `{broken`)

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()
		res, err := NewPipeline(discardLogger(), &mockSink{}, Config{InputPath: path, EditionID: 1}).
			Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Stats.MalformedLines)
		assert.Equal(t, len(testhelper.FatihaPage()), res.Inserted)
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		_, err := NewPipeline(discardLogger(), &mockSink{}, Config{InputPath: path, EditionID: 1, Strict: true}).
			Run(context.Background())
		assert.ErrorIs(t, err, ErrDumpRejected)
	})
}

func TestPipeline_SinkErrors(t *testing.T) {
	t.Parallel()
	path := writeDump(t, testhelper.FatihaPage())
	boom := errors.New("disk full")

	_, err := NewPipeline(discardLogger(), &mockSink{
		PrepareFunc: func(context.Context) error { return boom },
	}, Config{InputPath: path, EditionID: 1}).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "prepare output")

	_, err = NewPipeline(discardLogger(), &mockSink{
		InsertWordsFunc: func(context.Context, int, []domain.WordRecord) error { return boom },
	}, Config{InputPath: path, EditionID: 1}).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert words")
}

func TestPipeline_MissingInput(t *testing.T) {
	t.Parallel()
	_, err := NewPipeline(discardLogger(), &mockSink{}, Config{InputPath: filepath.Join(t.TempDir(), "none.jsonl"), EditionID: 1}).
		Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dump")
}
