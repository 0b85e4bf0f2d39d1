package analyzer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		last  [2]int
	)
	tracker := NewTracker(func(current, total int, path string) {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, path)
		last = [2]int{current, total}
	})

	tracker.Add(2)
	tracker.Add(1)
	tracker.Tick("src/a.ts")
	tracker.Tick("src/b.ts")

	assert.Equal(t, 3, tracker.Total())
	assert.Equal(t, 2, tracker.Current())
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, paths)
	assert.Equal(t, [2]int{2, 3}, last)
}

func TestTrackerConcurrent(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(100)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("f.ts")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, tracker.Current())
}

func TestNilTracker(t *testing.T) {
	var tracker *Tracker
	tracker.Add(5)
	tracker.Tick("f.ts")
	assert.Zero(t, tracker.Current())
	assert.Zero(t, tracker.Total())
}

func TestTrackerContext(t *testing.T) {
	ctx := context.Background()
	if TrackerFromContext(ctx) != nil {
		t.Error("expected no tracker on a bare context")
	}

	tracker := NewTracker(nil)
	ctx = WithTracker(ctx, tracker)
	if got := TrackerFromContext(ctx); got != tracker {
		t.Errorf("TrackerFromContext() = %p, want %p", got, tracker)
	}
}
