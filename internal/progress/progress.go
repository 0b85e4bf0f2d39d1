// Package progress draws the terminal progress bar of an analysis run.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/panbanda/handover/pkg/analyzer"
	"github.com/schollz/progressbar/v3"
)

// Bar follows an analyzer.Tracker. Nothing is drawn until the first file
// is reported. A nil *Bar ignores every call.
type Bar struct {
	label string
	out   io.Writer

	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	total int
}

// Option configures a Bar.
type Option func(*Bar)

// WithWriter draws the bar on w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(b *Bar) {
		b.out = w
	}
}

// New returns a bar titled label.
func New(label string, opts ...Option) *Bar {
	b := &Bar{label: label, out: os.Stderr}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tracker returns an analyzer tracker that moves this bar. Attach it
// with analyzer.WithTracker.
func (b *Bar) Tracker() *analyzer.Tracker {
	if b == nil {
		return nil
	}
	return analyzer.NewTracker(b.update)
}

// Context attaches the bar's tracker to ctx.
func (b *Bar) Context(ctx context.Context) context.Context {
	if b == nil {
		return ctx
	}
	return analyzer.WithTracker(ctx, b.Tracker())
}

func (b *Bar) update(current, total int, _ string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.bar == nil:
		b.bar = b.draw(total)
	case total != b.total:
		b.bar.ChangeMax(total)
	}
	b.total = total
	_ = b.bar.Set(current)
}

func (b *Bar) draw(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(b.label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Done removes the bar. A non-nil err is reported on the bar's writer;
// cancellation is reported as such.
func (b *Bar) Done(err error) {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.bar != nil {
		_ = b.bar.Finish()
		_ = b.bar.Clear()
	}
	b.mu.Unlock()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(b.out, "  %s cancelled\n", b.label)
	default:
		fmt.Fprintf(b.out, "  %s failed: %v\n", b.label, err)
	}
}
