// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"iter"
	"sync"
)

// Run pulls items from seq and hands them to workerCount goroutines.
// Items are produced lazily, so seq may describe millions of work items without
// materializing them. The first error returned by process cancels the remaining work
// and is returned to the caller. A workerCount below one runs a single worker.
func Run[T any](
	ctx context.Context,
	workerCount int,
	seq iter.Seq[T],
	process func(context.Context, T) error,
) error {
	if workerCount < 1 {
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan T, workerCount)
	errs := make(chan error, 1)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-tasks:
					if !ok {
						return
					}
					if err := process(ctx, item); err != nil {
						select {
						case errs <- err:
						default:
						}
						cancel()
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for item := range seq {
			select {
			case <-ctx.Done():
				return
			case tasks <- item:
			}
		}
	}()

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return err
	}

	return ctx.Err()
}

// Range yields the integers in [from, to) in ascending order.
func Range[T ~int | ~uint64](from, to T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := from; v < to; v++ {
			if !yield(v) {
				return
			}
		}
	}
}
