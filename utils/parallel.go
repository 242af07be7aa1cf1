package utils

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// RangeWorkFunc processes the contiguous work items [from, to).
type RangeWorkFunc func(workerNum, from, to int) error

// RangeParallel splits totalSize work items into contiguous ranges and hands
// each range to its own worker goroutine, waiting for all of them to finish.
// Workers never share a work item, so work functions may write to
// per-item slots of shared slices without locking.
func RangeParallel(ctx context.Context, totalSize int, work RangeWorkFunc) error {
	if totalSize <= 0 {
		return ctx.Err()
	}
	numWorkers := ParallelFactor
	if totalSize < numWorkers {
		numWorkers = totalSize
	}
	chunk := totalSize / numWorkers
	extra := totalSize % numWorkers

	var (
		wait sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	from := 0
	wait.Add(numWorkers)
	for workerNum := 0; workerNum < numWorkers; workerNum++ {
		to := from + chunk
		if workerNum < extra {
			to++
		}
		workerNumCopy, fromCopy, toCopy := workerNum, from, to
		utils.PanicCapturingGo(func() {
			defer wait.Done()
			if err := work(workerNumCopy, fromCopy, toCopy); err != nil {
				mu.Lock()
				errs = multierr.Combine(errs, err)
				mu.Unlock()
			}
		})
		from = to
	}
	wait.Wait()
	return multierr.Combine(errs, ctx.Err())
}
