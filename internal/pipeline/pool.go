package pipeline

import (
	"context"
	"sync"
)

const defaultPhaseWorkers = 4

// forEach runs fn for every index in [0, n) across at most workers
// goroutines and returns per-index errors. Indices map to disjoint
// destination files, so workers never contend on outputs.
func forEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) []error {
	if workers <= 0 {
		workers = defaultPhaseWorkers
	}
	if workers > n {
		workers = n
	}
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = fn(ctx, i)
		}(i)
	}
	wg.Wait()
	return errs
}
