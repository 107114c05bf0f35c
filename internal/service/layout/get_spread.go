package layout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// SpreadPages returns the facing pages containing page: the odd (right-hand)
// page and the one after it.
func SpreadPages(page int) (right, left int) {
	right = page
	if right%2 == 0 {
		right--
	}
	left = min(right+1, domain.MaxPage)
	return right, left
}

// GetSpread loads both facing pages concurrently. Either page failing fails
// the spread.
func (s *Service) GetSpread(ctx context.Context, req PageRequest) (*Spread, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rightNum, leftNum := SpreadPages(req.Page)
	var spread Spread

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r := req
		r.Page = rightNum
		p, err := s.GetPage(gctx, r)
		spread.Right = p
		return err
	})
	g.Go(func() error {
		r := req
		r.Page = leftNum
		p, err := s.GetPage(gctx, r)
		spread.Left = p
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &spread, nil
}
