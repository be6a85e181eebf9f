package app

import (
	"context"
	"time"

	"phototag/internal/domain"
	appErrors "phototag/internal/errors"
	"phototag/internal/logging"
)

// ProgressFunc is called after each file of a batch.
type ProgressFunc func(current, total int, path string)

// ApplyFunc processes one file and returns the date it applied.
type ApplyFunc func(ctx context.Context, path string) (time.Time, error)

// Batch runs an ApplyFunc over files one at a time. A failing file is
// recorded and the batch moves on.
type Batch struct {
	Logger     logging.Logger
	OnProgress ProgressFunc
	OnResult   func(domain.FileResult)
}

func (b *Batch) Run(ctx context.Context, paths []string, apply ApplyFunc) (domain.BatchReport, error) {
	stop := b.Logger.Measure("batch")
	defer stop()

	var report domain.BatchReport
	start := time.Now()
	total := len(paths)

	for i, path := range paths {
		select {
		case <-ctx.Done():
			report.Elapsed = time.Since(start)
			b.Logger.Warn("batch interrupted", "done", report.Total(), "remaining", total-report.Total())
			return report, ctx.Err()
		default:
		}

		date, err := apply(ctx, path)
		result := domain.FileResult{Path: path, Date: date, Err: err}
		report.Add(result)
		if err != nil {
			b.Logger.Debug("file failed", "path", path, "kind", appErrors.KindOf(err), "err", err)
		}

		if b.OnResult != nil {
			b.OnResult(result)
		}
		if b.OnProgress != nil {
			b.OnProgress(i+1, total, path)
		}
	}

	report.Elapsed = time.Since(start)
	b.Logger.Verbosef("Processed %d files (%d failed) in %s", report.Total(), report.Failed, report.Elapsed.Round(time.Millisecond))
	return report, nil
}
