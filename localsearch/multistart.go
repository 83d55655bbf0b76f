package localsearch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/xinkaiwang/solvercore/klogging"
)

// PhaseBuilder creates an independent phase (own director, solution, termination) for start index.
type PhaseBuilder[S any] func(ctx context.Context, index int) (*Phase[S], error)

// RunMultiStart runs n phases concurrently. Results are ordered by start index; best is the highest best score,
// the lowest index wins ties. The first error cancels the other runs.
func RunMultiStart[S any](ctx context.Context, n int, build PhaseBuilder[S]) (results []*Result, best *Result, err error) {
	results = make([]*Result, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			runCtx := klogging.EmbedRunId(gctx, fmt.Sprintf("run-%d", i))
			phase, err := build(runCtx, i)
			if err != nil {
				return err
			}
			result, err := phase.Solve(runCtx)
			if err != nil {
				klogging.Warning(runCtx).WithError(err).Log("RunFailed", "")
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for _, result := range results {
		if best == nil || result.BestScore.IsBetterThan(best.BestScore) {
			best = result
		}
	}
	return results, best, nil
}
