package fetcher

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel calls fn for every index in [0, n) with at most `concurrency`
// calls in flight, concurrency is clamped to [1, MaxConcurrency]. fn is
// expected to write its result into a slot owned by its index.
func Parallel(ctx context.Context, n, concurrency int, fn func(ctx context.Context, i int)) {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}

	group := new(errgroup.Group)
	group.SetLimit(concurrency)
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	group.Wait()
}
