package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	assert.Equal(t, 4, pool.NumWorkers())
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	assert.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 103
	results := make([]int, n)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := range n {
		assert.Equal(t, i*2, results[i])
	}
}

func TestClosedPoolRunsSequentially(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	calls := 0
	pool.ParallelFor(10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}

func TestEmptyRange(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	pool.ParallelFor(0, func(start, end int) {
		t.Fatal("must not be called")
	})
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())

	var count atomic.Int64
	ParallelFor(50, func(start, end int) {
		count.Add(int64(end - start))
	})
	assert.Equal(t, int64(50), count.Load())
}
