package pipeline

import "sync"

// Pool bounds how many pipelines run concurrently while keeping submission
// non-blocking: Submit returns immediately and the task waits for a slot in
// its own goroutine. The original system ran pipelines unbounded; the
// admission limit closes that resource-exhaustion gap without changing the
// detached-execution contract.
type Pool struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

// NewPool creates a pool allowing up to size concurrent tasks.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Submit schedules task for execution and returns immediately.
func (p *Pool) Submit(task func()) {
	if task == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.slots <- struct{}{}
		defer func() { <-p.slots }()
		task()
	}()
}

// Wait blocks until every submitted task has finished. Used during shutdown;
// running pipelines are never interrupted.
func (p *Pool) Wait() {
	p.wg.Wait()
}
