package server

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() slog.Logger {
	return slog.NewBackend(io.Discard).Logger("TEST")
}

func TestWorkerPoolRunsJobs(t *testing.T) {
	wp := NewWorkerPool(4, 16, testLogger())
	defer wp.Stop()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		wp.Execute(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not complete")
	}
	assert.Equal(t, int64(20), atomic.LoadInt64(&count))
}

func TestWorkerPoolStopDropsLateJobs(t *testing.T) {
	wp := NewWorkerPool(1, 1, testLogger())
	wp.Stop()

	// Must not block or panic after shutdown.
	finished := make(chan struct{})
	go func() {
		wp.Execute(func() { t.Error("job ran after stop") })
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Execute blocked after stop")
	}
}

func TestWorkerPoolStopWaitsForRunningJob(t *testing.T) {
	wp := NewWorkerPool(1, 1, testLogger())

	started := make(chan struct{})
	var finished atomic.Bool
	wp.Execute(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	wp.Stop()
	require.True(t, finished.Load(), "Stop returned before the running job finished")
}
