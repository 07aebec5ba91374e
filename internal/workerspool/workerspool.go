// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool runs independent tasks concurrently, with a bounded parallelism.
//
// It is used to infer the independent nodes of a graph in parallel.
package workerspool

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool of workers with a limit of tasks running in parallel.
type Pool struct {
	// maxParallelism is the limit of tasks running in parallel: 0 runs everything inline, and < 0 means unlimited.
	maxParallelism int
}

// New return a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism is the limit of tasks running in parallel.
// If set to 0 parallelism is disabled and tasks run inline, one after the other.
// If set to -1 parallelism is unlimited.
func (w *Pool) MaxParallelism() int {
	return w.maxParallelism
}

// SetMaxParallelism sets the maxParallelism.
//
// It should only be changed when no ForEach is running.
func (w *Pool) SetMaxParallelism(maxParallelism int) {
	w.maxParallelism = maxParallelism
}

// ForEach calls task(i) for i in 0..n-1, concurrently up to the pool's parallelism, and waits for all of
// them to finish.
//
// It returns the first error returned by a task. Tasks not yet started when an error happens are still
// run: each task is expected to be independent and to report its own result.
func (w *Pool) ForEach(n int, task func(i int) error) error {
	if !w.IsEnabled() || n <= 1 {
		var firstErr error
		for i := range n {
			if err := task(i); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	var g errgroup.Group
	if !w.IsUnlimited() {
		g.SetLimit(w.maxParallelism)
	}
	for i := range n {
		g.Go(func() error { return task(i) })
	}
	return g.Wait()
}
