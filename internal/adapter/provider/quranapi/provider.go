// Package quranapi fetches page layouts from the public Quran.com v4 API.
package quranapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.quran.com/api/v4"
	DefaultMushafID = 1

	wordFields = "text_uthmani,line_number,page_number,position,char_type_name"

	// Bodies above this size are treated as malformed.
	maxBodyBytes = 8 << 20
)

// Provider fetches a page's words from the remote API and assembles them
// into the same Page shape the local store produces. It does not retry;
// callers own the retry and timeout policy.
type Provider struct {
	baseURL    string
	mushafID   int
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider against the public API.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(DefaultBaseURL, DefaultMushafID, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL and mushaf id.
func NewProviderWithURL(baseURL string, mushafID int, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		mushafID:   mushafID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "quranapi"),
	}
}

// FetchPage fetches and assembles one page.
//
// Transport failures, non-200 statuses, undecodable or truncated bodies and
// payloads that break the line/position invariants are reported as
// domain.ErrRemoteUnavailable wrapping the cause. A well-formed response
// without words yields domain.ErrPageNotFound.
func (p *Provider) FetchPage(ctx context.Context, page int) (*domain.Page, error) {
	if err := domain.CheckPageNumber(page); err != nil {
		return nil, err
	}

	reqURL := p.pageURL(page)
	p.log.DebugContext(ctx, "quranapi request", slog.Int("page", page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("quranapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.WarnContext(ctx, "quranapi request failed",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return nil, unavailable("request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("quranapi: page %d: %w", page, domain.ErrPageNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("status", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unavailable("read body", err)
	}

	var payload apiPageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, unavailable("decode json", err)
	}
	if pg := payload.Pagination; pg != nil && pg.NextPage != nil {
		return nil, unavailable("pagination", fmt.Errorf("truncated payload: page %d of %d, next %d",
			pg.CurrentPage, pg.TotalPages, *pg.NextPage))
	}

	words, err := mapAPIResponse(page, payload)
	if err != nil {
		return nil, unavailable("map response", err)
	}

	result, err := domain.AssemblePage(page, words)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return nil, fmt.Errorf("quranapi: %w", err)
		}
		return nil, unavailable("assemble", err)
	}

	p.log.DebugContext(ctx, "quranapi response",
		slog.Int("page", page),
		slog.Int("verses", len(payload.Verses)),
		slog.Int("words", len(words)),
		slog.Duration("took", time.Since(start)),
	)

	return result, nil
}

func (p *Provider) pageURL(page int) string {
	q := url.Values{}
	q.Set("words", "true")
	q.Set("per_page", "all")
	q.Set("mushaf", strconv.Itoa(p.mushafID))
	q.Set("word_fields", wordFields)
	return p.baseURL + "/verses/by_page/" + strconv.Itoa(page) + "?" + q.Encode()
}

func unavailable(stage string, cause error) error {
	return fmt.Errorf("quranapi: %s: %w: %w", stage, domain.ErrRemoteUnavailable, cause)
}

// mapAPIResponse flattens the verses into word records. Positions are
// assigned by arrival order within each line, starting at 0, matching the
// local store's numbering.
func mapAPIResponse(page int, payload apiPageResponse) ([]domain.WordRecord, error) {
	words := []domain.WordRecord{}
	next := make(map[int]int)

	for _, v := range payload.Verses {
		verseID := v.ID
		verseKey := v.VerseKey

		for _, w := range v.Words {
			ct, ok := charTypeFor(w.CharTypeName)
			if !ok {
				return nil, fmt.Errorf("word %d: unknown char type %q: %w", w.ID, w.CharTypeName, domain.ErrLayoutAnomaly)
			}

			text := w.TextUthmani
			if text == "" {
				text = w.Text
			}

			wordPage := w.PageNumber
			if wordPage == 0 {
				wordPage = page
			}

			rec := domain.WordRecord{
				ID:         w.ID,
				PageNumber: wordPage,
				LineNumber: w.LineNumber,
				Position:   next[w.LineNumber],
				Text:       norm.NFC.String(text),
				CharType:   ct,
			}
			if verseID > 0 {
				id := verseID
				rec.VerseID = &id
			}
			if verseKey != "" {
				key := verseKey
				rec.VerseKey = &key
			}

			next[w.LineNumber]++
			words = append(words, rec)
		}
	}

	return words, nil
}

func charTypeFor(name string) (domain.CharType, bool) {
	switch name {
	case "word", "":
		return domain.CharTypeWord, true
	case "end":
		return domain.CharTypeEnd, true
	case "pause":
		return domain.CharTypePause, true
	case "sajdah":
		return domain.CharTypeSajdah, true
	case "rub-el-hizb", "rub_el_hizb":
		return domain.CharTypeRubElHizb, true
	default:
		return "", false
	}
}
