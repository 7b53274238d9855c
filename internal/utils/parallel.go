package utils

import (
	"context"
	"sync"
)

// ParallelTask is a unit of work run by RunParallelTasks. Tasks report
// results through variables they close over.
type ParallelTask func(ctx context.Context) error

// RunParallelTasks executes tasks concurrently and waits for all of them.
// The first failure cancels the shared context; the error of the lowest
// indexed failing task is returned.
func RunParallelTasks(ctx context.Context, tasks ...ParallelTask) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			if err := t(ctx); err != nil {
				errs[index] = err
				cancel()
			}
		}(i, task)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
