// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package workerspool

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ForEach(t *testing.T) {
	pool := New()
	assert.Equal(t, runtime.NumCPU(), pool.MaxParallelism())

	// Limited parallelism: never more than maxParallelism running at the same time.
	const maxParallelism = 3
	pool.SetMaxParallelism(maxParallelism)
	var running, maxRunning, count atomic.Int32
	err := pool.ForEach(50, func(i int) error {
		current := running.Add(1)
		for {
			seen := maxRunning.Load()
			if current <= seen || maxRunning.CompareAndSwap(seen, current) {
				break
			}
		}
		runtime.Gosched()
		count.Add(1)
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(50), count.Load())
	assert.LessOrEqual(t, int(maxRunning.Load()), maxParallelism)

	// Results are indexed, so they can be collected without locks.
	results := make([]int, 20)
	require.NoError(t, pool.ForEach(len(results), func(i int) error {
		results[i] = i * i
		return nil
	}))
	for i, r := range results {
		require.Equal(t, i*i, r)
	}

	// Unlimited.
	pool.SetMaxParallelism(-1)
	assert.True(t, pool.IsUnlimited())
	count.Store(0)
	require.NoError(t, pool.ForEach(10, func(int) error { count.Add(1); return nil }))
	assert.Equal(t, int32(10), count.Load())
}

func TestPool_Inline(t *testing.T) {
	pool := New()
	pool.SetMaxParallelism(0)
	assert.False(t, pool.IsEnabled())

	// Inline runs in order, and all tasks run even if one fails.
	var order []int
	err := pool.ForEach(4, func(i int) error {
		order = append(order, i)
		if i == 1 {
			return errors.New("task 1 failed")
		}
		return nil
	})
	require.ErrorContains(t, err, "task 1 failed")
	assert.Equal(t, []int{0, 1, 2, 3}, order)

	require.NoError(t, pool.ForEach(0, func(int) error { return errors.New("never called") }))
}

func TestPool_ForEachError(t *testing.T) {
	pool := New()
	pool.SetMaxParallelism(2)
	var count atomic.Int32
	err := pool.ForEach(8, func(i int) error {
		count.Add(1)
		if i%3 == 0 {
			return errors.Errorf("task %d failed", i)
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, int32(8), count.Load())
}
