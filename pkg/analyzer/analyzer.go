// Package analyzer holds what the analysis packages share: the analyzer
// contract and progress reporting through the context.
package analyzer

import (
	"context"
	"sync/atomic"
)

// FileAnalyzer turns a set of file paths into a result of type T.
// Implementations stop early when ctx is cancelled.
type FileAnalyzer[T any] interface {
	Analyze(ctx context.Context, files []string) (T, error)
	Close()
}

// ProgressFunc receives the completed count, the known total and the
// path that just finished.
type ProgressFunc func(current, total int, path string)

// Tracker counts finished files for a progress display. A nil *Tracker
// ignores every call. Safe for concurrent use.
type Tracker struct {
	total   atomic.Int64
	current atomic.Int64
	report  ProgressFunc
}

// NewTracker returns a tracker that calls report after every Tick.
func NewTracker(report ProgressFunc) *Tracker {
	return &Tracker{report: report}
}

// Add grows the expected total by n.
func (t *Tracker) Add(n int) {
	if t == nil {
		return
	}
	t.total.Add(int64(n))
}

// Tick records that path is done.
func (t *Tracker) Tick(path string) {
	if t == nil {
		return
	}
	current := t.current.Add(1)
	if t.report != nil {
		t.report(int(current), int(t.total.Load()), path)
	}
}

// Current is the number of finished files.
func (t *Tracker) Current() int {
	if t == nil {
		return 0
	}
	return int(t.current.Load())
}

// Total is the expected number of files.
func (t *Tracker) Total() int {
	if t == nil {
		return 0
	}
	return int(t.total.Load())
}

type trackerKey struct{}

// WithTracker attaches t to ctx so the worker pool can report through it.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker attached to ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
