package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
	"github.com/heartmarshall/mushaf-layout/internal/service/layout"
	"github.com/heartmarshall/mushaf-layout/internal/service/typography"
)

// layoutService defines the minimal interface needed by PagesHandler.
type layoutService interface {
	GetPage(ctx context.Context, req layout.PageRequest) (*domain.PageLayout, error)
	GetSpread(ctx context.Context, req layout.PageRequest) (*layout.Spread, error)
}

// PagesHandler serves page and spread layouts.
type PagesHandler struct {
	svc layoutService
	log *slog.Logger
}

// NewPagesHandler creates a PagesHandler.
func NewPagesHandler(svc layoutService, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{svc: svc, log: logger.With("handler", "pages")}
}

// GetPage handles GET /api/v1/pages/{page}.
func (h *PagesHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	pl, err := h.svc.GetPage(r.Context(), req)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(pl))
}

// GetSpread handles GET /api/v1/spreads/{page}.
func (h *PagesHandler) GetSpread(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	spread, err := h.svc.GetSpread(r.Context(), req)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSpreadResponse(spread))
}

// WantsRemote reports whether the request may reach the remote API, either
// directly or through a fallback.
func WantsRemote(r *http.Request) bool {
	q := r.URL.Query()
	if q.Get("source") == string(domain.SourceRemote) {
		return true
	}
	fb, _ := strconv.ParseBool(q.Get("fallback"))
	return fb
}

func parsePageRequest(r *http.Request) (layout.PageRequest, error) {
	var req layout.PageRequest

	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		return req, domain.NewValidationError("page", "must be an integer")
	}
	req.Page = page

	q := r.URL.Query()
	switch src := q.Get("source"); src {
	case "", string(domain.SourceLocal):
	case string(domain.SourceRemote):
		req.UseRemote = true
	default:
		return req, domain.NewValidationError("source", "must be local or remote")
	}

	if v := q.Get("fallback"); v != "" {
		fb, err := strconv.ParseBool(v)
		if err != nil {
			return req, domain.NewValidationError("fallback", "must be a boolean")
		}
		req.Fallback = fb
	}

	if req.EditionID, err = intParam(q, "edition"); err != nil {
		return req, err
	}

	req.Typography, err = parseSelector(q)
	return req, err
}

func parseSelector(q url.Values) (typography.Selector, error) {
	var sel typography.Selector

	if v := q.Get("breakpoint"); v != "" {
		bp, ok := domain.ParseBreakpoint(v)
		if !ok {
			return sel, domain.NewValidationError("breakpoint", "must be narrow, medium or wide")
		}
		sel.Breakpoint = bp
	}

	var err error
	if sel.ContainerWidth, err = optionalIntParam(q, "width"); err != nil {
		return sel, err
	}
	if sel.ViewportWidth, err = optionalIntParam(q, "viewport"); err != nil {
		return sel, err
	}
	return sel, nil
}

// optionalIntParam is intParam that keeps an absent or empty value apart from 0.
func optionalIntParam(q url.Values, name string) (*int, error) {
	if q.Get(name) == "" {
		return nil, nil
	}
	n, err := intParam(q, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}
