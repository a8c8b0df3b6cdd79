package worker

import (
	"context"
	"runtime"
	"sync"
)

// Options controls the pool.
type Options struct {
	// Workers is the number of goroutines. Values <= 0 use GOMAXPROCS.
	Workers int
}

func (o Options) withDefaults(items int) Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Workers > items {
		o.Workers = items
	}
	return o
}

// Map runs fn over items on a bounded set of goroutines. The output keeps the
// input order. After a failure, items past the failing index are skipped while
// earlier ones still run, so the returned error is the one a sequential loop
// would hit first.
func Map[In any, Out any](
	ctx context.Context,
	items []In,
	fn func(context.Context, In) (Out, error),
	opts Options,
) ([]Out, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Out{}, nil
	}
	opts = opts.withDefaults(len(items))

	type job struct {
		idx int
		in  In
	}

	out := make([]Out, len(items))
	jobs := make(chan job)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		firstIdx = len(items)
	)
	failedBefore := func(idx int) bool {
		mu.Lock()
		defer mu.Unlock()
		return firstIdx < idx
	}
	fail := func(idx int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if idx < firstIdx {
			firstIdx = idx
			firstErr = err
		}
	}

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil || failedBefore(j.idx) {
					continue
				}
				res, err := fn(ctx, j.in)
				if err != nil {
					fail(j.idx, err)
					continue
				}
				out[j.idx] = res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			if failedBefore(i) {
				return
			}
			select {
			case jobs <- job{idx: i, in: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	mu.Lock()
	err := firstErr
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
