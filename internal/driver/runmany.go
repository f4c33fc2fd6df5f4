package driver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FileResult pairs a RunInput's file with its RunOutput (or the error
// Run returned, which in practice is always nil — Run reports problems
// as issues, not Go errors — kept for forward compatibility and so a
// future failure mode has somewhere to surface).
type FileResult struct {
	File   string
	Output *RunOutput
	Err    error
}

// RunMany runs Run over every input concurrently. Files are
// independent, so ctx cancellation (deadline or explicit cancel) is
// honored per file the same way Run honors it standalone: a cancelled
// file returns Partial results rather than aborting every other
// in-flight file.
func RunMany(ctx context.Context, inputs []RunInput) []FileResult {
	results := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	// errgroup.WithContext cancels gctx on the first returned error; Run
	// never returns one, so every file gets to run to completion (or to
	// its own cancellation via the parent ctx) independently.
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			out, err := Run(gctx, in)
			results[i] = FileResult{File: in.File, Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// RunManyBounded is RunMany with an explicit concurrency cap (number of
// files analyzed at once), via errgroup.SetLimit.
func RunManyBounded(ctx context.Context, inputs []RunInput, concurrency int) []FileResult {
	results := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			out, err := Run(gctx, in)
			results[i] = FileResult{File: in.File, Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
