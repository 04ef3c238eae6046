package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"social-sprout/internal/core/port"
)

// ErrPoolClosed is returned by Dispatch after Shutdown has been called.
var ErrPoolClosed = errors.New("worker pool is shut down")

// Pool runs generation jobs on a fixed number of goroutines fed by a
// bounded queue. Jobs run on the pool's own context, never on the context
// of the request that dispatched them.
type Pool struct {
	exec    port.GenerationExecutor
	workers int
	logger  *slog.Logger

	jobs   chan port.GenerationJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewPool(exec port.GenerationExecutor, workers, queueSize int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		exec:    exec,
		workers: workers,
		logger:  logger,
		jobs:    make(chan port.GenerationJob, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	for i := range p.workers {
		p.wg.Add(1)
		go p.work(i)
	}
	p.logger.Info("generation workers started", slog.Int("workers", p.workers), slog.Int("queue", cap(p.jobs)))
}

// Dispatch enqueues job without blocking. It returns port.ErrQueueFull when
// the queue has no room.
func (p *Pool) Dispatch(job port.GenerationJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return port.ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued and running jobs to
// finish. When ctx expires first, running jobs are cancelled, queued jobs
// are dropped and ctx.Err() is returned. Dropped runs stay pending in the
// ledger.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		if p.ctx.Err() != nil {
			p.logger.Warn("dropping generation job", slog.String("run_id", job.RunID))
			continue
		}
		p.run(id, job)
	}
}

func (p *Pool) run(id int, job port.GenerationJob) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("generation job panicked",
				slog.Int("worker", id),
				slog.String("run_id", job.RunID),
				slog.Any("panic", r))
		}
	}()
	p.exec.Execute(p.ctx, job)
}
