package server

import (
	"sync"

	"github.com/decred/slog"
)

// WorkerPool executes blocking units of work (connection reads, bot
// HTTP calls, table run loops) on a fixed number of goroutines.
type WorkerPool struct {
	log  slog.Logger
	jobs chan func()
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewWorkerPool starts size workers with the given submission queue
// depth.
func NewWorkerPool(size, queueSize int, log slog.Logger) *WorkerPool {
	wp := &WorkerPool{
		log:  log,
		jobs: make(chan func(), queueSize),
		quit: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		wp.wg.Add(1)
		go wp.run(i)
	}
	log.Debugf("worker pool started with %d workers", size)
	return wp
}

func (wp *WorkerPool) run(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.quit:
			wp.log.Tracef("worker %d stopping", id)
			return
		case job := <-wp.jobs:
			job()
		}
	}
}

// Execute submits a job, blocking while the queue is full. Jobs
// submitted after Stop are dropped.
func (wp *WorkerPool) Execute(job func()) {
	select {
	case wp.jobs <- job:
	case <-wp.quit:
		wp.log.Warnf("worker pool stopped, dropping job")
	}
}

// Stop shuts the pool down and waits for the workers to return. Queued
// jobs that no worker picked up yet are discarded.
func (wp *WorkerPool) Stop() {
	wp.once.Do(func() {
		close(wp.quit)
	})
	wp.wg.Wait()
}
