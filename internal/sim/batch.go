package sim

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/liftsim/internal/elevator"
)

// Job is one scenario run with one algorithm.
type Job struct {
	Scenario  string
	Algorithm string
}

// Jobs is the cross product of scenarios and algorithms, scenario-major.
func Jobs(scenarios, algorithms []string) []Job {
	jobs := make([]Job, 0, len(scenarios)*len(algorithms))
	for _, s := range scenarios {
		for _, a := range algorithms {
			jobs = append(jobs, Job{Scenario: s, Algorithm: a})
		}
	}
	return jobs
}

// Batch runs every scenario file through every algorithm with at most
// concurrency runs in flight (unbounded when concurrency <= 0). onDone, if
// set, is called once per finished run from a single goroutine at a time.
// Results are returned in Jobs order. The first failure cancels the rest.
func Batch(ctx context.Context, cfg elevator.Config, scenarios, algorithms []string, concurrency int, onDone func(Result), opts ...Option) ([]Result, error) {
	jobs := Jobs(scenarios, algorithms)
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	var mu sync.Mutex
	for i, job := range jobs {
		g.Go(func() error {
			_, res, err := RunFile(ctx, cfg, job.Algorithm, job.Scenario, opts...)
			if err != nil {
				return fmt.Errorf("batch job %d: %w", i, err)
			}
			results[i] = *res
			if onDone != nil {
				mu.Lock()
				onDone(*res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
