// Package async provides utilities for parallel task execution.
//
// This package contains generic helpers for running many independent units of
// work concurrently with a bounded number of workers. It is used for the
// per-subscription scan, per-pair reconcile, and per-subscription orphan sweep
// fan-outs.
package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunBounded executes tasks with at most workers goroutines running at once.
// Every task is executed regardless of sibling failures; the error returned is
// the join of all task errors, each wrapped with its task name. A cancelled
// context stops the scheduling of not-yet-started tasks but does not interrupt
// tasks already running.
func RunBounded(ctx context.Context, workers int, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: not started: %w", task.Name, ctx.Err()))
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := task.Func(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}
