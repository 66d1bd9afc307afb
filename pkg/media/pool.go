package media

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is a unit of media work submitted to the Pool.
type Job func(ctx context.Context) error

// Pool runs media jobs on a fixed number of goroutines. With one worker the
// jobs run strictly in submission order.
type Pool struct {
	jobs     chan Job
	wg       sync.WaitGroup
	senders  sync.WaitGroup
	workers  int
	closeMu  sync.Mutex
	closed   bool
	done     chan struct{}
	failures atomic.Int64
}

// NewPool creates a pool with the given number of workers and queue capacity.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
		done:    make(chan struct{}),
	}
}

// Start launches the workers. They exit when ctx is done or Close is called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := job(ctx); err != nil {
						p.failures.Add(1)
					}
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full. It returns
// ErrPoolClosed after Close and ctx.Err() when ctx is cancelled first.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return ErrPoolClosed
	}
	p.senders.Add(1)
	p.closeMu.Unlock()
	defer p.senders.Done()

	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued work to drain.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.closeMu.Unlock()
	p.senders.Wait()
	close(p.jobs)
	p.wg.Wait()
}

// Failures reports how many jobs returned an error.
func (p *Pool) Failures() int64 { return p.failures.Load() }

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"media pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
