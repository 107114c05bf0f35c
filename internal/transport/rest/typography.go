package rest

import (
	"net/http"

	"github.com/heartmarshall/mushaf-layout/internal/service/typography"
)

type resolvedTypographyResponse struct {
	Breakpoint string             `json:"breakpoint"`
	Profile    typographyResponse `json:"profile"`
}

type typographyTableResponse struct {
	Default  string                        `json:"default"`
	Profiles map[string]typographyResponse `json:"profiles"`
	Content  ladderResponse                `json:"content"`
	Viewport ladderResponse                `json:"viewport"`
}

type ladderResponse struct {
	MediumMin int `json:"mediumMin"`
	WideMin   int `json:"wideMin"`
}

// TypographyHandler serves the typography profiles.
type TypographyHandler struct{}

// NewTypographyHandler creates a TypographyHandler.
func NewTypographyHandler() *TypographyHandler { return &TypographyHandler{} }

// Get handles GET /api/v1/typography. With a breakpoint or width hint it
// returns the resolved profile, otherwise the whole table.
func (h *TypographyHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("breakpoint") || q.Has("width") || q.Has("viewport") {
		sel, err := parseSelector(q)
		if err != nil {
			writeError(w, statusFor(err), codeFor(err), err.Error())
			return
		}
		bp, p, err := typography.Resolve(sel)
		if err != nil {
			writeError(w, statusFor(err), codeFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resolvedTypographyResponse{
			Breakpoint: string(bp),
			Profile:    toTypographyResponse(p),
		})
		return
	}

	table := typographyTableResponse{
		Default:  string(typography.DefaultBreakpoint),
		Profiles: make(map[string]typographyResponse),
		Content:  ladderResponse{MediumMin: typography.ContentMediumMin, WideMin: typography.ContentWideMin},
		Viewport: ladderResponse{MediumMin: typography.ViewportMediumMin, WideMin: typography.ViewportWideMin},
	}
	for bp, p := range typography.Profiles() {
		table.Profiles[string(bp)] = toTypographyResponse(p)
	}
	writeJSON(w, http.StatusOK, table)
}
