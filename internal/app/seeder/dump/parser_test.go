package dump

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

func TestParse_ValidLines(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		`{"id":1,"page_number":1,"line_number":1,"position":0,"text":"surah001","char_type":"surah_name","class_name":"surah-name"}`,
		`{"id":2,"page_number":1,"line_number":2,"position":0,"text":"بِسۡمِ","char_type":"word","verse_id":1,"verse_key":"1:1"}`,
		``,
		`{"id":3,"page_number":2,"line_number":3,"position":0,"text":"الٓمٓ","char_type":"word","verse_id":8,"verse_key":"2:1"}`,
	}, "\n")

	words, stats, bad, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, bad)
	assert.Equal(t, Stats{TotalLines: 4, BlankLines: 1, Words: 3, Pages: 2}, stats)
	require.Len(t, words, 3)

	assert.Equal(t, domain.CharTypeSurahName, words[0].CharType)
	require.NotNil(t, words[0].ClassName)
	assert.Equal(t, "surah-name", *words[0].ClassName)
	assert.Nil(t, words[0].VerseID)

	require.NotNil(t, words[1].VerseID)
	assert.Equal(t, 1, *words[1].VerseID)
	assert.Equal(t, "1:1", *words[1].VerseKey)
	assert.Equal(t, int64(2), words[1].ID)
}

func TestParse_NormalisesText(t *testing.T) {
	t.Parallel()
	input := `{"id":1,"page_number":1,"line_number":2,"position":0,"text":"e\u0301","char_type":"word"}`

	words, _, _, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "\u00e9", words[0].Text)
}

func TestParse_MalformedLines(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		`not json`,
		`{"page_number":1,"line_number":1,"position":0,"text":"x","char_type":"word"}`,
		`{"id":2,"page_number":1,"line_number":1,"text":"x","char_type":"word"}`,
		`{"id":3,"page_number":605,"line_number":1,"position":0,"text":"x","char_type":"word"}`,
		`{"id":4,"page_number":1,"line_number":1,"position":0,"text":"x","char_type":"glyph"}`,
		`{"id":5,"page_number":1,"line_number":1,"position":0,"text":"ok","char_type":"word"}`,
	}, "\n")

	words, stats, bad, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, words, 1)
	assert.Equal(t, 5, stats.MalformedLines)
	require.Len(t, bad, 5)

	assert.Equal(t, 1, bad[0].Line)
	assert.ErrorIs(t, &bad[1], domain.ErrValidation)
	assert.ErrorIs(t, &bad[2], domain.ErrValidation)
	assert.ErrorIs(t, &bad[3], domain.ErrOutOfRange)
	assert.ErrorIs(t, &bad[4], domain.ErrValidation)
	assert.Contains(t, bad[4].Error(), "line 5")
}

func TestParse_LineTooLong(t *testing.T) {
	t.Parallel()
	input := `{"text":"` + strings.Repeat("a", maxLineSize+1) + `"}`

	_, _, _, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanner error")
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()
	_, _, _, err := ParseFile("/nonexistent/dump.jsonl")
	require.Error(t, err)
	var le *LineError
	assert.False(t, errors.As(err, &le))
}
