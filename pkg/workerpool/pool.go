// Package workerpool is a bounded goroutine pool with a fixed-size task
// queue. Submit never blocks and reports ErrPoolFull when the queue is at
// capacity; SubmitWait blocks until there is room.
//
//	pool := workerpool.New(4, 256)
//	defer pool.Shutdown()
//	err := pool.Submit(func() { notify(order) })
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/liftstore/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	mu       sync.RWMutex
	closed   bool
	tasks    chan func()
	wg       sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
}

// New starts size workers. queue is the number of tasks that may wait for a
// worker; it defaults to twice the worker count.
func New(size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = size * 2
	}
	p := &Pool{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued, ctx ends or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. Safe
// to call more than once.
func (p *Pool) Shutdown() {
	// wake blocked SubmitWait callers before taking the write lock
	p.doneOnce.Do(func() { close(p.done) })

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

// run keeps a panicking task from killing its worker.
func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
