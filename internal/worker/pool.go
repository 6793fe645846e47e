// Package worker provides a generic parallel task pool used to run a
// small batch of independent jobs concurrently and collect their results
// in task order once every job completes or the context is cancelled.
package worker

import (
	"context"
	"sync"
	"time"
)

// Job is one unit of work the pool runs on a worker goroutine. A job must
// be independent of every other job in the same Run call — the pool makes
// no ordering guarantee between them.
type Job func(ctx context.Context) (any, error)

// Task pairs a Job with a label used to report results back to the caller.
type Task struct {
	Label string
	Job   Job
}

// Result is the outcome of one Task.
type Result struct {
	Label   string
	Value   any
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	OnProgress ProgressFunc
}

// Pool runs a batch of Tasks across a fixed number of worker goroutines.
type Pool struct {
	workers    int
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		onProgress: cfg.OnProgress,
	}
}

// Run executes every task and returns their results, in the same order as
// tasks. It blocks until all tasks complete or ctx is cancelled, in which
// case any task that hadn't started yet resolves with ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	type indexed struct {
		index int
		task  Task
	}

	workCh := make(chan indexed, len(tasks))
	for i, task := range tasks {
		workCh <- indexed{index: i, task: task}
	}
	close(workCh)

	results := make([]Result, len(tasks))
	var (
		completed int
		failed    int
		mu        sync.Mutex
		wg        sync.WaitGroup
	)

	worker := func() {
		defer wg.Done()
		for item := range workCh {
			start := time.Now()

			var res Result
			res.Label = item.task.Label

			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
			default:
				value, err := item.task.Job(ctx)
				res.Value = value
				res.Err = err
			}
			res.Elapsed = time.Since(start)

			results[item.index] = res

			mu.Lock()
			completed++
			if res.Err != nil {
				failed++
			}
			c, f := completed, failed
			mu.Unlock()

			if p.onProgress != nil {
				p.onProgress(c, len(tasks), f)
			}
		}
	}

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go worker()
	}
	wg.Wait()

	return results
}
