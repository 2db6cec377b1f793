package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsEveryTask(t *testing.T) {
	pool := New(4, 0)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, n, count.Load())
}

func TestSubmitReportsFullQueue(t *testing.T) {
	pool := New(1, 2)
	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolFull)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.SubmitWait(ctx, func() {}), context.DeadlineExceeded)

	close(blocker)
	pool.Shutdown()
}

func TestShutdownDrainsAndRejects(t *testing.T) {
	pool := New(2, 10)
	var ran atomic.Int64
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}
	pool.Shutdown()
	pool.Shutdown()

	assert.EqualValues(t, 5, ran.Load())
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() {}), ErrPoolClosed)
}

func TestPanickingTaskKeepsWorkerAlive(t *testing.T) {
	pool := New(1, 0)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func() { panic("boom") }))
	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(context.Background(), func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
}
