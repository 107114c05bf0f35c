package layout

import (
	"github.com/heartmarshall/mushaf-layout/internal/domain"
	"github.com/heartmarshall/mushaf-layout/internal/service/typography"
)

// PageRequest selects a page, its source and the typography hint.
type PageRequest struct {
	Page int
	// UseRemote selects the remote API instead of the local store.
	UseRemote bool
	// Fallback allows the other source to be tried when the chosen one is
	// missing (local) or unavailable (remote).
	Fallback   bool
	Typography typography.Selector
	// EditionID overrides the configured edition for local reads.
	EditionID int
}

// Validate checks the request before any I/O.
func (r PageRequest) Validate() error {
	if err := domain.CheckPageNumber(r.Page); err != nil {
		return err
	}
	if r.EditionID < 0 {
		return domain.NewValidationError("edition", "must be positive")
	}
	if bp := r.Typography.Breakpoint; bp != "" && !bp.IsValid() {
		return domain.NewValidationError("breakpoint", "unknown breakpoint "+string(bp))
	}
	if w := r.Typography.ContainerWidth; w != nil && *w < 0 {
		return domain.NewValidationError("width", "must not be negative")
	}
	if w := r.Typography.ViewportWidth; w != nil && *w < 0 {
		return domain.NewValidationError("viewport", "must not be negative")
	}
	return nil
}

// Spread is a pair of facing pages. Right is the odd page.
type Spread struct {
	Right *domain.PageLayout
	Left  *domain.PageLayout
}
