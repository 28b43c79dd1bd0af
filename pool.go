package sitegen

import (
	"context"
	"iter"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps workers; transformation is CPU-bound and gains
	// little past this.
	MaxPoolSize = 8
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// transformFunc renders one record.
type transformFunc func(context.Context, ContentRecord) (*RenderedPage, error)

// transformJob pairs a record with its position in the source sequence.
type transformJob struct {
	index  int
	record ContentRecord
}

// transformResult is the outcome of one job.
type transformResult struct {
	index int
	path  string
	page  *RenderedPage
	err   error
}

// transformAll feeds records to workers and returns the results in source
// order. Workers share nothing but the read-only transform; results are
// placed by index on the calling goroutine. A source error stops feeding
// and is returned after the workers drain.
func transformAll(parent context.Context, workers int, records iter.Seq2[ContentRecord, error], fn transformFunc) ([]transformResult, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if workers < MinPoolSize {
		workers = MinPoolSize
	}

	jobs := make(chan transformJob)
	results := make(chan transformResult, workers)

	var feedErr error
	go func() {
		defer close(jobs)
		i := 0
		for rec, err := range records {
			if err != nil {
				feedErr = err
				cancel()
				return
			}
			select {
			case jobs <- transformJob{index: i, record: rec}:
				i++
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for job := range jobs {
				page, err := fn(ctx, job.record)
				results <- transformResult{index: job.index, path: job.record.Path, page: page, err: err}
			}
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var ordered []transformResult
	for r := range results {
		for len(ordered) <= r.index {
			ordered = append(ordered, transformResult{})
		}
		ordered[r.index] = r
	}

	// feedErr is written before jobs is closed, which happens before the
	// workers finish and results is closed.
	if feedErr != nil {
		return nil, feedErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return ordered, nil
}
