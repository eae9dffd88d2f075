// Package parallel provides small helpers for bounded data-parallel work.
package parallel

import "sync"

// Result pairs one item's output with its error, kept at the item's
// original position.
type Result[R any] struct {
	Value R
	Err   error
}

// MapOrdered runs fn over every item with at most concurrency goroutines
// and returns the results in input order.
func MapOrdered[T any, R any](items []T, concurrency int, fn func(T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			v, err := fn(item)
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}

// Run executes fn over every item with at most concurrency goroutines and
// waits for all of them. For work without per-item results.
func Run[T any](items []T, concurrency int, fn func(T)) {
	if len(items) == 0 {
		return
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fn(item)
		}(item)
	}
	wg.Wait()
}
