package wordstore

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

const maxSummaryBatch = 64

type summarySource interface {
	GetPageSummaries(ctx context.Context, editionID int, pages []int) (map[int]*domain.PageSummary, error)
}

type summaryKey struct {
	edition int
	page    int
}

// SummaryBatcher coalesces concurrent page-summary lookups (for example the
// two pages of a spread, or parallel requests) into one grouped query. It
// keeps no cache: every Load hits the store.
type SummaryBatcher struct {
	loader *dataloader.Loader[summaryKey, *domain.PageSummary]
}

// NewSummaryBatcher creates a batcher that waits up to wait for more keys.
func NewSummaryBatcher(src summarySource, wait time.Duration) *SummaryBatcher {
	return &SummaryBatcher{
		loader: dataloader.NewBatchedLoader(
			newSummaryBatchFn(src),
			dataloader.WithWait[summaryKey, *domain.PageSummary](wait),
			dataloader.WithBatchCapacity[summaryKey, *domain.PageSummary](maxSummaryBatch),
			dataloader.WithCache[summaryKey, *domain.PageSummary](&dataloader.NoCache[summaryKey, *domain.PageSummary]{}),
		),
	}
}

// GetPageSummary has the same contract as Store.GetPageSummary.
func (b *SummaryBatcher) GetPageSummary(ctx context.Context, editionID, page int) (*domain.PageSummary, error) {
	return b.loader.Load(ctx, summaryKey{edition: editionID, page: page})()
}

func newSummaryBatchFn(src summarySource) dataloader.BatchFunc[summaryKey, *domain.PageSummary] {
	return func(ctx context.Context, keys []summaryKey) []*dataloader.Result[*domain.PageSummary] {
		// The batch runs on behalf of several callers; one of them going
		// away must not fail the others.
		ctx = context.WithoutCancel(ctx)

		byEdition := make(map[int][]int)
		for _, k := range keys {
			byEdition[k.edition] = append(byEdition[k.edition], k.page)
		}

		found := make(map[summaryKey]*domain.PageSummary, len(keys))
		failed := make(map[int]error)
		for edition, pages := range byEdition {
			sums, err := src.GetPageSummaries(ctx, edition, pages)
			if err != nil {
				failed[edition] = err
				continue
			}
			for page, s := range sums {
				found[summaryKey{edition: edition, page: page}] = s
			}
		}

		results := make([]*dataloader.Result[*domain.PageSummary], len(keys))
		for i, k := range keys {
			if err, ok := failed[k.edition]; ok {
				results[i] = &dataloader.Result[*domain.PageSummary]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[*domain.PageSummary]{Data: found[k]}
		}
		return results
	}
}
