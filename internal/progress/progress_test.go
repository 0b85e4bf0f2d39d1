package progress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/panbanda/handover/pkg/analyzer"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	b := New("Analyzing", WithWriter(&buf))
	if b.label != "Analyzing" {
		t.Errorf("label = %q, want Analyzing", b.label)
	}
	if b.bar != nil {
		t.Error("bar should not be drawn before any progress")
	}
	b.Done(nil)
	if buf.Len() != 0 {
		t.Errorf("an unused bar should print nothing, got %q", buf.String())
	}
}

func TestTrackerDrivesBar(t *testing.T) {
	var buf bytes.Buffer
	b := New("Analyzing", WithWriter(&buf))

	ctx := b.Context(context.Background())
	tracker := analyzer.TrackerFromContext(ctx)
	if tracker == nil {
		t.Fatal("Context() should attach a tracker")
	}

	tracker.Add(2)
	tracker.Tick("a.ts")
	if b.total != 2 {
		t.Errorf("total = %d, want 2", b.total)
	}

	tracker.Add(3)
	for _, p := range []string{"b.ts", "c.ts", "d.ts", "e.ts"} {
		tracker.Tick(p)
	}
	if b.total != 5 {
		t.Errorf("total after growth = %d, want 5", b.total)
	}
	if tracker.Current() != 5 {
		t.Errorf("Current() = %d, want 5", tracker.Current())
	}
	b.Done(nil)
}

func TestConcurrentTicks(t *testing.T) {
	var buf bytes.Buffer
	b := New("Concurrent", WithWriter(&buf))
	tracker := b.Tracker()
	tracker.Add(50)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick(fmt.Sprintf("f%d.ts", i))
		}()
	}
	wg.Wait()

	if tracker.Current() != 50 {
		t.Errorf("Current() = %d, want 50", tracker.Current())
	}
	b.Done(nil)
}

func TestDone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"failure", errors.New("permission denied"), "Scanning failed: permission denied"},
		{"cancelled", fmt.Errorf("analyze: %w", context.Canceled), "Scanning cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			b := New("Scanning", WithWriter(&buf))
			b.Done(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNilBar(t *testing.T) {
	var b *Bar
	ctx := context.Background()
	if b.Context(ctx) != ctx {
		t.Error("a nil bar should leave the context alone")
	}
	if b.Tracker() != nil {
		t.Error("a nil bar should have no tracker")
	}
	b.Done(errors.New("ignored"))
}
