// ABOUTME: Small worker pool for parallel batch work such as reading audio tags
// ABOUTME: Submit-and-wait pattern with cancellation through a context

// Package pool runs batches of independent tasks on a fixed set of goroutines.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
}

// NewWorkerPool starts workers goroutines; workers <= 0 means one per CPU.
// The bufferSize determines the task channel capacity.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				task()
				pool.taskWg.Done()
			}
		}()
	}

	return pool
}

// Submit adds a task to the pool.
// Blocks while the task channel is full; returns ctx.Err() if ctx ends first.
func (p *WorkerPool) Submit(ctx context.Context, task func()) error {
	p.taskWg.Add(1)

	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		p.taskWg.Done()

		return ctx.Err()
	}
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}

// ForEach runs fn(i) for every i in [0, n) on a temporary pool and waits for completion.
// Tasks not yet submitted when ctx ends are skipped.
func ForEach(ctx context.Context, n, workers int, fn func(i int)) error {
	if n == 0 {
		return ctx.Err()
	}

	if workers <= 0 || workers > n {
		workers = min(n, runtime.NumCPU())
	}

	p := NewWorkerPool(workers, workers)
	defer p.Close()

	for i := range n {
		if err := p.Submit(ctx, func() { fn(i) }); err != nil {
			p.Wait()

			return err
		}
	}

	p.Wait()

	return ctx.Err()
}
