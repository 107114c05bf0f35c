package seeder

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/mushaf-layout/internal/app/seeder/dump"
	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// maxReportedAnomalies caps the per-page problems kept in a Result.
const maxReportedAnomalies = 20

// ErrDumpRejected is returned when validation finds problems the
// configuration does not allow.
var ErrDumpRejected = errors.New("dump rejected")

// Result holds the outcome of one pipeline run.
type Result struct {
	Stats     dump.Stats
	Pages     int
	Inserted  int
	Anomalies []string
	Duration  time.Duration
}

// Pipeline parses a dump, checks every page assembles, then loads it.
type Pipeline struct {
	log  *slog.Logger
	sink WordSink
	cfg  Config
}

// NewPipeline creates a new Pipeline. sink may be nil for dry runs.
func NewPipeline(log *slog.Logger, sink WordSink, cfg Config) *Pipeline {
	return &Pipeline{log: log, sink: sink, cfg: cfg}
}

// Run executes the pipeline.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	words, stats, bad, err := dump.ParseFile(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}
	res.Stats = stats
	p.log.Info("dump parsed",
		slog.Int("total_lines", stats.TotalLines),
		slog.Int("words", stats.Words),
		slog.Int("pages", stats.Pages),
		slog.Int("malformed", stats.MalformedLines),
	)
	for _, le := range bad {
		p.log.Warn("malformed line", slog.Int("line", le.Line), slog.String("error", le.Err.Error()))
	}
	if len(bad) > 0 && p.cfg.Strict {
		return res, fmt.Errorf("%w: %d malformed lines", ErrDumpRejected, len(bad))
	}

	pages := groupByPage(words)
	res.Pages = len(pages)

	var anomalies int
	for _, number := range sortedKeys(pages) {
		page, err := domain.AssemblePage(number, pages[number])
		if err != nil {
			anomalies++
			if len(res.Anomalies) < maxReportedAnomalies {
				res.Anomalies = append(res.Anomalies, err.Error())
			}
			p.log.Warn("page does not assemble", slog.Int("page", number), slog.String("error", err.Error()))
			continue
		}
		if missing := page.MissingLines(); len(missing) > 0 {
			p.log.Debug("page has empty lines", slog.Int("page", number), slog.Any("lines", missing))
		}
	}
	if anomalies > 0 {
		return res, fmt.Errorf("%w: %d pages fail to assemble", ErrDumpRejected, anomalies)
	}

	if p.cfg.DryRun {
		p.log.Info("dry run, nothing written", slog.Int("words", len(words)))
		res.Duration = time.Since(start)
		return res, nil
	}
	if p.sink == nil {
		return res, fmt.Errorf("no output configured")
	}

	if err := p.sink.Prepare(ctx); err != nil {
		return res, fmt.Errorf("prepare output: %w", err)
	}
	if err := p.sink.InsertWords(ctx, p.cfg.EditionID, sortWords(words)); err != nil {
		return res, fmt.Errorf("insert words: %w", err)
	}
	res.Inserted = len(words)
	res.Duration = time.Since(start)

	p.log.Info("pipeline completed",
		slog.Int("edition_id", p.cfg.EditionID),
		slog.Int("inserted", res.Inserted),
		slog.Int("pages", res.Pages),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// groupByPage buckets words per page, each bucket in (line, position) order.
func groupByPage(words []domain.WordRecord) map[int][]domain.WordRecord {
	pages := make(map[int][]domain.WordRecord)
	for _, w := range words {
		pages[w.PageNumber] = append(pages[w.PageNumber], w)
	}
	for n := range pages {
		pages[n] = sortWords(pages[n])
	}
	return pages
}

func sortWords(words []domain.WordRecord) []domain.WordRecord {
	out := slices.Clone(words)
	slices.SortStableFunc(out, func(a, b domain.WordRecord) int {
		return cmp.Or(
			cmp.Compare(a.PageNumber, b.PageNumber),
			cmp.Compare(a.LineNumber, b.LineNumber),
			cmp.Compare(a.Position, b.Position),
		)
	})
	return out
}

func sortedKeys(m map[int][]domain.WordRecord) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
