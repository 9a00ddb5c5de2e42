package table

import (
	"context"
	"fmt"
	"sync"
)

// ResolveError reports the column whose type failed to resolve.
type ResolveError struct {
	Index int
	Key   string
	Err   error
}

// Error implements error.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("column %d (%s): %v", e.Index, e.Key, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

type indexedColumn struct {
	index  int
	column ResolvedColumn
	err    error
}

// Resolve resolves every column concurrently and returns them in schema
// order. The first failure cancels the remaining resolutions and is
// returned as a *ResolveError.
func Resolve(ctx context.Context, cols []Column) ([]ResolvedColumn, error) {
	if len(cols) == 0 {
		return []ResolvedColumn{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan indexedColumn, len(cols))
	var wg sync.WaitGroup
	for i, col := range cols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := resolveColumn(ctx, col)
			results <- indexedColumn{index: i, column: rc, err: err}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]ResolvedColumn, len(cols))
	var first *ResolveError
	for r := range results {
		if r.err != nil {
			if first == nil {
				first = &ResolveError{Index: r.index, Key: cols[r.index].Key, Err: r.err}
				cancel()
			}
			continue
		}
		out[r.index] = r.column
	}
	if first != nil {
		return nil, first
	}
	return out, nil
}
