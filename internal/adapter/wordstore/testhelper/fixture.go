// Package testhelper builds throwaway SQLite word stores for tests.
package testhelper

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/adapter/wordstore"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// EditionID is the edition the fixtures are written under.
const EditionID = 1

// NewSQLiteStore writes words into a fresh SQLite file under t.TempDir(),
// applying the schema migration first, and returns the file path.
func NewSQLiteStore(t *testing.T, words []domain.WordRecord) string {
	t.Helper()
	return NewSQLiteStoreAt(t, filepath.Join(t.TempDir(), "mushaf.db"), words)
}

// NewSQLiteStoreAt is NewSQLiteStore with an explicit file path.
func NewSQLiteStoreAt(t *testing.T, path string, words []domain.WordRecord) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := wordstore.OpenWritable(ctx, path)
	if err != nil {
		t.Fatalf("testhelper: open writable store: %v", err)
	}
	defer db.Close()

	if err := wordstore.Migrate(ctx, db, wordstore.DriverSQLite); err != nil {
		t.Fatalf("testhelper: migrate: %v", err)
	}
	if err := wordstore.InsertWords(ctx, db, wordstore.DriverSQLite, EditionID, words); err != nil {
		t.Fatalf("testhelper: insert words: %v", err)
	}

	return path
}

// FatihaPage returns the words of page 1: the surah header on line 1 and
// the seven verses of Al-Fatiha on lines 2..8. Lines 9..15 are empty, as in
// the printed edition.
func FatihaPage() []domain.WordRecord {
	b := newPageBuilder(1, 1)
	b.header(1, domain.CharTypeSurahName, "surah001")
	b.verse(2, 1, "1:1", "بِسۡمِ ٱللَّهِ ٱلرَّحۡمَٰنِ ٱلرَّحِيمِ", true)
	b.verse(3, 2, "1:2", "ٱلۡحَمۡدُ لِلَّهِ رَبِّ ٱلۡعَٰلَمِينَ", true)
	b.verse(4, 3, "1:3", "ٱلرَّحۡمَٰنِ ٱلرَّحِيمِ", true)
	b.verse(4, 4, "1:4", "مَٰلِكِ يَوۡمِ ٱلدِّينِ", true)
	b.verse(5, 5, "1:5", "إِيَّاكَ نَعۡبُدُ وَإِيَّاكَ نَسۡتَعِينُ", true)
	b.verse(6, 6, "1:6", "ٱهۡدِنَا ٱلصِّرَٰطَ ٱلۡمُسۡتَقِيمَ", true)
	b.verse(7, 7, "1:7", "صِرَٰطَ ٱلَّذِينَ أَنۡعَمۡتَ عَلَيۡهِمۡ", false)
	b.verse(8, 7, "1:7", "غَيۡرِ ٱلۡمَغۡضُوبِ عَلَيۡهِمۡ وَلَا ٱلضَّآلِّينَ", true)
	return b.words
}

// BaqarahOpening returns a partial page 2: surah header, basmala and the
// first verses of Al-Baqarah on lines 1..5.
func BaqarahOpening() []domain.WordRecord {
	b := newPageBuilder(2, 1000)
	b.header(1, domain.CharTypeSurahName, "surah002")
	b.header(2, domain.CharTypeBasmala, "بِسۡمِ ٱللَّهِ ٱلرَّحۡمَٰنِ ٱلرَّحِيمِ")
	b.verse(3, 8, "2:1", "الٓمٓ", true)
	b.verse(3, 9, "2:2", "ذَٰلِكَ ٱلۡكِتَٰبُ لَا رَيۡبَۛ", false)
	b.verse(4, 9, "2:2", "فِيهِۛ هُدٗى لِّلۡمُتَّقِينَ", true)
	b.verse(5, 10, "2:3", "ٱلَّذِينَ يُؤۡمِنُونَ بِٱلۡغَيۡبِ", false)
	return b.words
}

type pageBuilder struct {
	page   int
	nextID int64
	next   map[int]int
	words  []domain.WordRecord
}

func newPageBuilder(page int, firstID int64) *pageBuilder {
	return &pageBuilder{page: page, nextID: firstID, next: make(map[int]int)}
}

func (b *pageBuilder) add(line int, text string, ct domain.CharType, verseID *int, verseKey *string) {
	b.words = append(b.words, domain.WordRecord{
		ID:         b.nextID,
		PageNumber: b.page,
		LineNumber: line,
		Position:   b.next[line],
		Text:       text,
		CharType:   ct,
		VerseID:    verseID,
		VerseKey:   verseKey,
	})
	b.nextID++
	b.next[line]++
}

func (b *pageBuilder) header(line int, ct domain.CharType, text string) {
	b.add(line, text, ct, nil, nil)
}

func (b *pageBuilder) verse(line, verseID int, key, text string, withEnd bool) {
	for _, word := range strings.Fields(text) {
		b.add(line, word, domain.CharTypeWord, &verseID, &key)
	}
	if withEnd {
		n := key[strings.IndexByte(key, ':')+1:]
		b.add(line, n, domain.CharTypeEnd, &verseID, &key)
	}
}
