package widen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/simonkoeck/widen/pkg/expand"
	"github.com/simonkoeck/widen/pkg/logging"
)

// ProcessFiles analyzes files in parallel, at most cfg.Jobs at a time, and
// writes the changed ones unless cfg asks for a dry run or interactive
// review. Results are returned in the order of files. Per-file failures are
// recorded on the results; the returned error is only set when ctx ends
// the run early.
func ProcessFiles(ctx context.Context, files []string, cfg Config, e *expand.Expander) ([]*FileResult, error) {
	results := make([]*FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Jobs, 1))

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := AnalyzeFile(file, cfg, e)
			if result.Error == nil && cfg.writes() {
				if err := ApplyFile(result, cfg); err != nil {
					logging.Error("failed to write file", "file", file, "error", err)
				}
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return compact(results), err
	}
	return results, nil
}

// compact drops the slots of files that were never started.
func compact(results []*FileResult) []*FileResult {
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
