package domain

import "fmt"

// AssemblePage groups the word records of one page into exactly LinesPerPage
// lines, preserving the input order within each line.
//
// A page without any records is reported as ErrPageNotFound rather than as 15
// empty lines. Lines that exist in the edition but have no records are kept as
// empty lines so the gap stays visible (see Page.MissingLines).
//
// Records pointing at another page, a line outside [1, LinesPerPage], or
// positions that are not strictly contiguous within a line yield an error
// wrapping ErrLayoutAnomaly. The result never shares backing arrays with words.
func AssemblePage(number int, words []WordRecord) (*Page, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("page %d: %w", number, ErrPageNotFound)
	}

	grouped := make([][]WordRecord, LinesPerPage)
	for _, w := range words {
		if w.PageNumber != number {
			return nil, fmt.Errorf("page %d: word %d belongs to page %d: %w",
				number, w.ID, w.PageNumber, ErrLayoutAnomaly)
		}
		if w.LineNumber < 1 || w.LineNumber > LinesPerPage {
			return nil, fmt.Errorf("page %d: word %d has line %d: %w",
				number, w.ID, w.LineNumber, ErrLayoutAnomaly)
		}
		idx := w.LineNumber - 1
		if prev := grouped[idx]; len(prev) > 0 {
			if last := prev[len(prev)-1].Position; w.Position != last+1 {
				return nil, fmt.Errorf("page %d line %d: position %d follows %d: %w",
					number, w.LineNumber, w.Position, last, ErrLayoutAnomaly)
			}
		}
		grouped[idx] = append(grouped[idx], w)
	}

	page := &Page{
		Number:  number,
		Lines:   make([]Line, LinesPerPage),
		Summary: SummarizeWords(words),
	}
	for i, lw := range grouped {
		page.Lines[i] = Line{
			Number: i + 1,
			Kind:   classifyLine(lw),
			Words:  lw,
		}
		if lw == nil {
			page.Lines[i].Words = []WordRecord{}
		}
	}

	return page, nil
}

func classifyLine(words []WordRecord) LineKind {
	if len(words) == 0 {
		return LineKindEmpty
	}
	for _, w := range words {
		switch w.CharType {
		case CharTypeSurahName:
			return LineKindSurahName
		case CharTypeBasmala:
			return LineKindBasmala
		}
	}
	return LineKindAyah
}
