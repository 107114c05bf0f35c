package rest

import (
	"github.com/heartmarshall/mushaf-layout/internal/domain"
	"github.com/heartmarshall/mushaf-layout/internal/service/layout"
)

type wordResponse struct {
	ID        int64   `json:"id"`
	Position  int     `json:"position"`
	Text      string  `json:"text"`
	CharType  string  `json:"charType"`
	ClassName *string `json:"className,omitempty"`
	VerseID   *int    `json:"verseId,omitempty"`
	VerseKey  *string `json:"verseKey,omitempty"`
}

type lineResponse struct {
	LineNumber int            `json:"lineNumber"`
	Kind       string         `json:"kind"`
	Words      []wordResponse `json:"words"`
}

type summaryResponse struct {
	FirstVerseID int `json:"firstVerseId"`
	LastVerseID  int `json:"lastVerseId"`
	VerseCount   int `json:"verseCount"`
}

type typographyResponse struct {
	CanvasWidth   float64 `json:"canvasWidth"`
	CanvasHeight  float64 `json:"canvasHeight"`
	FontSize      float64 `json:"fontSize"`
	LineHeight    float64 `json:"lineHeight"`
	WordSpacing   float64 `json:"wordSpacing"`
	LetterSpacing float64 `json:"letterSpacing"`
}

type pageResponse struct {
	PageNumber   int                `json:"pageNumber"`
	Source       string             `json:"source"`
	Breakpoint   string             `json:"breakpoint"`
	Lines        []lineResponse     `json:"lines"`
	MissingLines []int              `json:"missingLines"`
	Summary      *summaryResponse   `json:"summary"`
	Typography   typographyResponse `json:"typography"`
}

type spreadResponse struct {
	Right pageResponse `json:"right"`
	Left  pageResponse `json:"left"`
}

func toPageResponse(pl *domain.PageLayout) pageResponse {
	resp := pageResponse{
		PageNumber:   pl.Page.Number,
		Source:       pl.Source.String(),
		Breakpoint:   string(pl.Breakpoint),
		Lines:        make([]lineResponse, len(pl.Page.Lines)),
		MissingLines: pl.Page.MissingLines(),
		Typography:   toTypographyResponse(pl.Typography),
	}
	if resp.MissingLines == nil {
		resp.MissingLines = []int{}
	}
	if s := pl.Page.Summary; s != nil {
		resp.Summary = &summaryResponse{
			FirstVerseID: s.FirstVerseID,
			LastVerseID:  s.LastVerseID,
			VerseCount:   s.VerseCount,
		}
	}

	for i, l := range pl.Page.Lines {
		words := make([]wordResponse, len(l.Words))
		for j, w := range l.Words {
			words[j] = wordResponse{
				ID:        w.ID,
				Position:  w.Position,
				Text:      w.Text,
				CharType:  string(w.CharType),
				ClassName: w.ClassName,
				VerseID:   w.VerseID,
				VerseKey:  w.VerseKey,
			}
		}
		resp.Lines[i] = lineResponse{LineNumber: l.Number, Kind: string(l.Kind), Words: words}
	}
	return resp
}

func toSpreadResponse(s *layout.Spread) spreadResponse {
	return spreadResponse{
		Right: toPageResponse(s.Right),
		Left:  toPageResponse(s.Left),
	}
}

func toTypographyResponse(p domain.TypographyProfile) typographyResponse {
	return typographyResponse{
		CanvasWidth:   p.CanvasWidth,
		CanvasHeight:  p.CanvasHeight,
		FontSize:      p.FontSize,
		LineHeight:    p.LineHeight,
		WordSpacing:   p.WordSpacing,
		LetterSpacing: p.LetterSpacing,
	}
}
