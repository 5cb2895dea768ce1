package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(n), count.Load())
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.SubmitWait(func() {
		close(started)
		<-blocker
	}))
	<-started

	// queue holds 2× the worker count
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)
	close(blocker)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(func() {}), workerpool.ErrPoolClosed)
}

func TestPool_ShutdownRunsQueuedTasks(t *testing.T) {
	pool := workerpool.New(1)

	var ran atomic.Int32
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		}))
	}
	pool.Shutdown()

	assert.Equal(t, int32(2), ran.Load())
}

func TestPool_PanicRecovery(t *testing.T) {
	recovered := make(chan interface{}, 1)
	pool := workerpool.New(1).OnPanic(func(v interface{}) { recovered <- v })
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitWait(func() { panic("listener failed") }))

	select {
	case v := <-recovered:
		assert.Equal(t, "listener failed", v)
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler never called")
	}

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestPool_ConcurrentSubmitAndShutdown(t *testing.T) {
	pool := workerpool.New(4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = pool.Submit(func() {})
			}
		}()
	}

	pool.Shutdown()
	wg.Wait()
}
