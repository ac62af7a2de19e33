package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Runner processes many files with one Pipeline.
type Runner struct {
	Pipeline *Pipeline
}

// New creates a Runner with the given pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them on a worker
// pool. Every file gets its own store. Outcomes are returned in
// discovery order.
func (r *Runner) Run(ctx context.Context, opts Options, popts PipelineOptions) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan int)
	outcomes := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Go(func() {
			for idx := range workCh {
				if ctx.Err() != nil {
					return
				}
				outcome := FileOutcome{Path: files[idx]}
				outcome.Result, outcome.Error = r.Pipeline.ProcessFile(ctx, files[idx], popts)
				outcomes[idx] = &outcome
			}
		})
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- idx:
		}
	}
	close(workCh)
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}
