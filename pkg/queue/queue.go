// Package queue runs background jobs off the request path.
//
//	q := queue.New(queue.NewMemoryDriver(1000))
//	q.Register(jobs.SendOrderReceiptName, func() queue.Job { return &jobs.SendOrderReceipt{} })
//	q.Start(ctx, 2)
//	q.Dispatch(ctx, &jobs.SendOrderReceipt{OrderID: 7})
//
// Jobs travel as JSON envelopes so the Redis driver can hand them to a
// worker in another process.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
)

// Job is a unit of background work. JobName must match the name it was
// registered under.
type Job interface {
	JobName() string
	Handle(ctx context.Context) error
}

// FailedJob is a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the storage backend. Pop returns (nil, nil) when nothing was
// ready before its internal timeout.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

var ErrUnknownJob = errors.New("queue: job type not registered")

type envelope struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// Manager dispatches jobs to a driver and runs workers against it.
type Manager struct {
	driver   Driver
	failures FailureStore

	mu       sync.RWMutex
	registry map[string]func() Job
	failed   []FailedJob

	maxRetry int
	backoff  time.Duration
	wg       sync.WaitGroup
}

type Option func(*Manager)

// WithMaxRetry sets how many times a failing job runs before it is recorded
// as failed.
func WithMaxRetry(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetry = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt n waits n*d.
func WithBackoff(d time.Duration) Option { return func(m *Manager) { m.backoff = d } }

// WithFailureStore persists exhausted jobs in addition to the in-memory list.
func WithFailureStore(s FailureStore) Option { return func(m *Manager) { m.failures = s } }

func New(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  time.Second,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register makes a job type decodable by workers.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// Dispatch serialises job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.JobName(), err)
	}
	raw, err := json.Marshal(envelope{Type: job.JobName(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := m.driver.Push(ctx, raw); err != nil {
		return err
	}
	metrics.RecordQueueJob(job.JobName(), "dispatched")
	return nil
}

// Start launches n workers. They stop when ctx is cancelled; Wait blocks
// until they have.
func (m *Manager) Start(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go m.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	defer m.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			if !sleep(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}
		if raw == nil {
			continue
		}
		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		m.fail(ctx, env, ErrUnknownJob, 0)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		m.fail(ctx, env, fmt.Errorf("queue: decode payload: %w", err), 0)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = m.run(ctx, job); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "processed")
			logger.Debug("queue: job processed", "type", env.Type)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry && !sleep(ctx, time.Duration(attempt)*m.backoff) {
			break
		}
	}
	m.fail(ctx, env, lastErr, m.maxRetry)
}

func (m *Manager) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()
	return job.Handle(ctx)
}

func (m *Manager) fail(ctx context.Context, env envelope, err error, attempts int) {
	metrics.RecordQueueJob(env.Type, "failed")
	logger.Error("queue: job failed permanently", "type", env.Type, "attempts", attempts, "error", err)

	f := FailedJob{Type: env.Type, Payload: env.Payload, Err: err, FailedAt: time.Now(), Attempts: attempts}
	m.mu.Lock()
	m.failed = append(m.failed, f)
	m.mu.Unlock()

	if m.failures != nil {
		if perr := m.failures.Save(context.WithoutCancel(ctx), f); perr != nil {
			logger.Error("queue: persist failed job", "type", env.Type, "error", perr)
		}
	}
}

// Failed returns a snapshot of the jobs this process gave up on.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
