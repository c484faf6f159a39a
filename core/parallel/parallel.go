// Package parallel provides chunked worker helpers for operations over
// logically independent items, such as stack members.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across workers sized to the number of CPU cores
// and executes fn for each (start, end) range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so every item lands in exactly one chunk.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// Map executes fn for every index up to items, at most workers at a time,
// and returns per-index errors in index order. workers <= 1 degrades to
// sequential execution. Collection order is deterministic regardless of
// completion order.
func Map(items, workers int, fn func(i int) error) []error {
	errs := make([]error, items)
	if items == 0 {
		return errs
	}
	if workers <= 1 {
		for i := 0; i < items; i++ {
			errs[i] = fn(i)
		}
		return errs
	}
	if workers > items {
		workers = items
	}

	var wg sync.WaitGroup
	indices := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				errs[i] = fn(i)
			}
		}()
	}
	for i := 0; i < items; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return errs
}
