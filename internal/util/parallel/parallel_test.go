package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestMapOrderedPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := MapOrdered(items, 3, func(n int) (int, error) {
		return n * n, nil
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected error at %d: %v", i, r.Err)
		}
		if r.Value != items[i]*items[i] {
			t.Errorf("result[%d] = %d, want %d", i, r.Value, items[i]*items[i])
		}
	}
}

func TestMapOrderedKeepsErrorsInPlace(t *testing.T) {
	boom := errors.New("boom")
	results := MapOrdered([]int{0, 1, 2}, 2, func(n int) (int, error) {
		if n == 1 {
			return 0, boom
		}
		return n, nil
	})

	if results[1].Err != boom {
		t.Errorf("results[1].Err = %v, want boom", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("unrelated items should not carry errors")
	}
}

func TestMapOrderedEmpty(t *testing.T) {
	if got := MapOrdered(nil, 4, func(int) (int, error) { return 0, nil }); got != nil {
		t.Errorf("expected nil results for empty input, got %v", got)
	}
}

func TestRunVisitsEveryItem(t *testing.T) {
	var sum atomic.Int64
	Run([]int64{1, 2, 3, 4, 5}, 2, func(n int64) {
		sum.Add(n)
	})
	if sum.Load() != 15 {
		t.Errorf("sum = %d, want 15", sum.Load())
	}
}

func TestRunClampsConcurrency(t *testing.T) {
	// Zero concurrency must still make progress.
	var count atomic.Int32
	Run([]int{1, 2, 3}, 0, func(int) { count.Add(1) })
	if count.Load() != 3 {
		t.Errorf("count = %d, want 3", count.Load())
	}
}
