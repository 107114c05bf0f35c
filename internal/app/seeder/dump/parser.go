// Package dump reads JSON-lines word dumps, one word record per line.
package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// maxLineSize is the buffer size for bufio.Scanner (1 MB).
const maxLineSize = 1 << 20

// Stats counts what a parse saw.
type Stats struct {
	TotalLines     int
	BlankLines     int
	MalformedLines int
	Words          int
	Pages          int
}

// LineError locates a malformed line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// dumpWord mirrors one row of the word table.
type dumpWord struct {
	ID         *int64  `json:"id"`
	PageNumber int     `json:"page_number"`
	LineNumber int     `json:"line_number"`
	Position   *int    `json:"position"`
	Text       string  `json:"text"`
	CharType   string  `json:"char_type"`
	ClassName  *string `json:"class_name"`
	VerseID    *int    `json:"verse_id"`
	VerseKey   *string `json:"verse_key"`
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]domain.WordRecord, Stats, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse streams the dump. Malformed lines are collected and skipped; the
// returned error is reserved for read failures. Text is NFC-normalised.
func Parse(r io.Reader) ([]domain.WordRecord, Stats, []LineError, error) {
	var (
		stats   Stats
		words   []domain.WordRecord
		bad     []LineError
		pages   = make(map[int]struct{})
		scanner = bufio.NewScanner(r)
	)
	scanner.Buffer(make([]byte, 64<<10), maxLineSize)

	for scanner.Scan() {
		stats.TotalLines++
		line := scanner.Bytes()
		if len(trimSpace(line)) == 0 {
			stats.BlankLines++
			continue
		}

		w, err := decodeWord(line)
		if err != nil {
			stats.MalformedLines++
			bad = append(bad, LineError{Line: stats.TotalLines, Err: err})
			continue
		}

		words = append(words, w)
		pages[w.PageNumber] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, bad, fmt.Errorf("scanner error: %w", err)
	}

	stats.Words = len(words)
	stats.Pages = len(pages)
	return words, stats, bad, nil
}

func decodeWord(line []byte) (domain.WordRecord, error) {
	var d dumpWord
	if err := json.Unmarshal(line, &d); err != nil {
		return domain.WordRecord{}, fmt.Errorf("decode json: %w", err)
	}
	if d.ID == nil {
		return domain.WordRecord{}, domain.NewValidationError("id", "required")
	}
	if d.Position == nil {
		return domain.WordRecord{}, domain.NewValidationError("position", "required")
	}
	if err := domain.CheckPageNumber(d.PageNumber); err != nil {
		return domain.WordRecord{}, err
	}
	ct := domain.CharType(d.CharType)
	if !ct.IsValid() {
		return domain.WordRecord{}, domain.NewValidationError("char_type", fmt.Sprintf("unknown char type %q", d.CharType))
	}

	return domain.WordRecord{
		ID:         *d.ID,
		PageNumber: d.PageNumber,
		LineNumber: d.LineNumber,
		Position:   *d.Position,
		Text:       norm.NFC.String(d.Text),
		CharType:   ct,
		ClassName:  d.ClassName,
		VerseID:    d.VerseID,
		VerseKey:   d.VerseKey,
	}, nil
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t' || b[0] == '\r') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
