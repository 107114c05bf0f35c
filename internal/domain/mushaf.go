package domain

// Fixed geometry of the reference print edition.
const (
	MinPage      = 1
	MaxPage      = 604
	LinesPerPage = 15
)

// CharType classifies a word record.
type CharType string

const (
	CharTypeWord      CharType = "word"
	CharTypeEnd       CharType = "end"
	CharTypePause     CharType = "pause"
	CharTypeSajdah    CharType = "sajdah"
	CharTypeRubElHizb CharType = "rub_el_hizb"
	CharTypeSurahName CharType = "surah_name"
	CharTypeBasmala   CharType = "basmala"
)

func (c CharType) String() string { return string(c) }

func (c CharType) IsValid() bool {
	switch c {
	case CharTypeWord, CharTypeEnd, CharTypePause, CharTypeSajdah,
		CharTypeRubElHizb, CharTypeSurahName, CharTypeBasmala:
		return true
	}
	return false
}

// IsVerseText reports whether the record belongs to the text of a verse
// (as opposed to a surah header or the basmala line).
func (c CharType) IsVerseText() bool {
	return c != CharTypeSurahName && c != CharTypeBasmala
}

// LineKind is derived from the words a line holds.
type LineKind string

const (
	LineKindAyah      LineKind = "ayah"
	LineKindSurahName LineKind = "surah_name"
	LineKindBasmala   LineKind = "basmala"
	LineKindEmpty     LineKind = "empty"
)

func (k LineKind) String() string { return string(k) }

// Source tags which data path produced a page.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

func (s Source) String() string { return string(s) }

func (s Source) IsValid() bool {
	return s == SourceLocal || s == SourceRemote
}

// WordRecord is one glyph/word unit of the Mushaf with its page coordinates.
type WordRecord struct {
	ID         int64
	PageNumber int
	LineNumber int
	// Position is the 0-based ordinal within (PageNumber, LineNumber).
	Position  int
	Text      string
	CharType  CharType
	ClassName *string
	VerseID   *int
	VerseKey  *string
}

// Line is one of the 15 lines of a page.
type Line struct {
	Number int
	Kind   LineKind
	Words  []WordRecord
}

// PageSummary describes the verses a page touches.
type PageSummary struct {
	FirstVerseID int
	LastVerseID  int
	VerseCount   int
}

// Page is the assembled Page -> Line -> Word hierarchy.
type Page struct {
	Number  int
	Lines   []Line
	Summary *PageSummary
}

// MissingLines returns the numbers of lines that carry no words.
func (p *Page) MissingLines() []int {
	var missing []int
	for _, l := range p.Lines {
		if len(l.Words) == 0 {
			missing = append(missing, l.Number)
		}
	}
	return missing
}

// WordCount returns the total number of word records on the page.
func (p *Page) WordCount() int {
	n := 0
	for _, l := range p.Lines {
		n += len(l.Words)
	}
	return n
}

// PageLayout is the composite result handed to the rendering layer.
type PageLayout struct {
	Page       *Page
	Typography TypographyProfile
	Breakpoint Breakpoint
	Source     Source
}

// SummarizeWords computes the verse summary of a word set.
// Returns nil when no record carries a verse id.
func SummarizeWords(words []WordRecord) *PageSummary {
	seen := make(map[int]struct{})
	var s PageSummary
	for _, w := range words {
		if w.VerseID == nil {
			continue
		}
		id := *w.VerseID
		if len(seen) == 0 || id < s.FirstVerseID {
			s.FirstVerseID = id
		}
		if len(seen) == 0 || id > s.LastVerseID {
			s.LastVerseID = id
		}
		seen[id] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	s.VerseCount = len(seen)
	return &s
}
