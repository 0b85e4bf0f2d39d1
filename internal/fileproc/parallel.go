// Package fileproc runs per-file work over a bounded pool of workers, each
// task with its own tree-sitter parser.
package fileproc

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/panbanda/handover/pkg/analyzer"
	"github.com/panbanda/handover/pkg/parser"
	"github.com/panbanda/handover/pkg/source"
	"github.com/sourcegraph/conc/pool"
)

// FileError ties a failure to the file it happened on.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Failed lists the per-file failures joined into err by MapSource,
// ordered by path.
func Failed(err error) []*FileError {
	var out []*FileError
	var walk func(error)
	walk = func(err error) {
		if fe, ok := err.(*FileError); ok {
			out = append(out, fe)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
		}
	}
	if err != nil {
		walk(err)
	}
	slices.SortFunc(out, func(a, b *FileError) int { return cmp.Compare(a.Path, b.Path) })
	return out
}

// ErrorFunc observes a file that could not be read or processed.
type ErrorFunc func(path string, err error)

// Options tunes a MapSource run.
type Options struct {
	// Workers bounds concurrency; see Workers.
	Workers int
}

// Workers returns n, or twice the CPU count when n is not positive.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU() * 2
}

// ProcessFunc handles one file with a parser owned by the calling task.
type ProcessFunc[T any] func(ctx context.Context, psr *parser.Parser, path string, content []byte) (T, error)

// MapSource reads every file from src and runs fn on it in parallel.
// Results keep the order of files and leave out the files that failed;
// those come back joined in the error as *FileError values. Files not
// yet started when ctx is cancelled fail with the context's error.
// Progress goes to the tracker carried by ctx.
func MapSource[T any](ctx context.Context, files []string, src source.ContentSource, opts Options, fn ProcessFunc[T]) ([]T, error) {
	if len(files) == 0 {
		return nil, nil
	}

	tracker := analyzer.TrackerFromContext(ctx)
	tracker.Add(len(files))

	type slot struct {
		value T
		ok    bool
	}
	slots := make([]slot, len(files))

	fail := func(path string, err error) error {
		return &FileError{Path: path, Err: err}
	}

	p := pool.New().WithMaxGoroutines(Workers(opts.Workers)).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			defer tracker.Tick(path)

			if err := ctx.Err(); err != nil {
				return fail(path, err)
			}
			content, err := src.Read(path)
			if err != nil {
				return fail(path, fmt.Errorf("read: %w", err))
			}

			psr := parser.New()
			defer psr.Close()

			v, err := fn(ctx, psr, path, content)
			if err != nil {
				return fail(path, err)
			}
			slots[i] = slot{value: v, ok: true}
			return nil
		})
	}
	err := p.Wait()

	out := make([]T, 0, len(files))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.value)
		}
	}
	return out, err
}
