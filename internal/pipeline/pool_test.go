package pipeline_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"videoai/internal/pipeline"
)

func TestPoolSubmitReturnsImmediately(t *testing.T) {
	pool := pipeline.NewPool(1)
	release := make(chan struct{})

	pool.Submit(func() { <-release })

	done := make(chan struct{})
	go func() {
		// With the single slot held, a second submission must still return
		// right away; only the task itself waits.
		pool.Submit(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the pool was full")
	}

	close(release)
	pool.Wait()
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const limit = 3
	pool := pipeline.NewPool(limit)

	var running, peak atomic.Int32
	var mu sync.Mutex
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			now := running.Add(1)
			mu.Lock()
			if now > peak.Load() {
				peak.Store(now)
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	pool.Wait()

	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, limit is %d", got, limit)
	}
}

func TestPoolIgnoresNilTasks(t *testing.T) {
	pool := pipeline.NewPool(0)
	pool.Submit(nil)
	pool.Wait()
}
