// Package event is an in-process publish/subscribe dispatcher. Async
// listeners run on a bounded worker pool so a burst of webhooks cannot
// spawn unbounded goroutines.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/workerpool"
)

// Listener handles one event. name is the event it was fired under.
type Listener func(ctx context.Context, name string, payload any) error

type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	pool      *workerpool.Pool
}

// NewDispatcher runs async listeners on workers goroutines.
func NewDispatcher(workers, queue int) *Dispatcher {
	return &Dispatcher{
		listeners: map[string][]Listener{},
		pool:      workerpool.New(workers, queue),
	}
}

// Listen registers l for every name given.
func (d *Dispatcher) Listen(l Listener, names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range names {
		d.listeners[n] = append(d.listeners[n], l)
	}
}

func (d *Dispatcher) snapshot(name string) []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Listener(nil), d.listeners[name]...)
}

// Fire runs every listener in registration order and returns their joined
// errors. A failing listener does not stop the rest.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) error {
	var errs []error
	for _, l := range d.snapshot(name) {
		if err := l(ctx, name, payload); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// FireAsync queues each listener on the pool and returns. The request
// context's values are kept but its cancellation is not, so listeners
// outlive the HTTP request that fired them. When the queue is full the
// caller waits for room.
func (d *Dispatcher) FireAsync(ctx context.Context, name string, payload any) {
	detached := context.WithoutCancel(ctx)
	for _, l := range d.snapshot(name) {
		l := l
		task := func() {
			if err := l(detached, name, payload); err != nil {
				logger.WithCtx(detached).Error("event: listener failed", "event", name, "error", err)
			}
		}
		if err := d.pool.SubmitWait(ctx, task); err != nil {
			logger.WithCtx(ctx).Error("event: dropped", "event", name, "error", err)
		}
	}
}

// Close waits for queued listeners to finish.
func (d *Dispatcher) Close() {
	d.pool.Shutdown()
}
