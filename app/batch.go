package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// BatchItem is the outcome of one file in a batch import. Result is nil
// when Err is set.
type BatchItem struct {
	Path   string
	Result *ImportResult
	Err    error
}

// ImportBatch imports several files with bounded concurrency. Each file is
// an independent import: one failure never aborts the others, mirroring the
// single-file contract where an import either completes fully or returns
// nothing. Items come back in the order of paths.
func (s *ImportService) ImportBatch(ctx context.Context, paths []string, opts Options) []BatchItem {
	sem := semaphore.NewWeighted(s.deps.MaxConcurrentImports)
	items := make([]BatchItem, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		items[i].Path = path
		if err := sem.Acquire(ctx, 1); err != nil {
			items[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)
			result, err := s.Import(ctx, path, opts)
			items[i] = BatchItem{Path: path, Result: result, Err: err}
		}(i, path)
	}
	wg.Wait()

	return items
}
