package taskrunner

import (
	"context"
	"fmt"
	"sync"
)

// Job is a unit of work run by the pool.
type Job func(ctx context.Context) error

// Future delivers the result of a submitted job exactly once.
type Future struct {
	result chan error
	cancel context.CancelFunc
}

func (f *Future) C() <-chan error {
	return f.result
}

// Stop cancels the job's context.
func (f *Future) Stop() {
	f.cancel()
}

// Wait blocks until the job finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case err := <-f.result:
		return err
	case <-ctx.Done():
		f.cancel()
		return ctx.Err()
	}
}

type jobRequest struct {
	job    Job
	ctx    context.Context
	result chan error
}

// Pool runs jobs on a fixed number of workers. Jobs wait in FIFO order
// until a worker is free.
type Pool struct {
	pending []jobRequest
	free    int
	submit  chan jobRequest
	done    chan struct{}
	closing chan struct{}
	stopped chan struct{}

	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		free:       workers,
		submit:     make(chan jobRequest),
		done:       make(chan struct{}, workers),
		closing:    make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go p.run()
	return p
}

// Submit queues job. After Close the future reports context.Canceled.
func (p *Pool) Submit(job Job) *Future {
	result := make(chan error, 1)
	ctx, cancel := context.WithCancel(p.mainCtx)

	select {
	case <-p.mainCtx.Done():
		result <- context.Canceled
	case p.submit <- jobRequest{job: job, ctx: ctx, result: result}:
	}

	return &Future{result: result, cancel: cancel}
}

// Close cancels running jobs, drops queued ones and waits for the workers.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mainCancel()
		close(p.closing)
		<-p.stopped
	})
}

func (p *Pool) run() {
	defer close(p.stopped)
	for {
		select {
		case r := <-p.submit:
			p.pending = append(p.pending, r)
			p.dispatch()
		case <-p.done:
			p.free++
			p.dispatch()
		case <-p.closing:
			for _, r := range p.pending {
				r.result <- context.Canceled
			}
			p.pending = nil
			p.wg.Wait()
			return
		}
	}
}

func (p *Pool) dispatch() {
	for p.free > 0 && len(p.pending) > 0 {
		r := p.pending[0]
		p.pending = p.pending[1:]
		p.free--
		p.wg.Add(1)
		go p.work(r)
	}
}

func (p *Pool) work(r jobRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			r.result <- fmt.Errorf("task worker panicked: %v", rec)
		}
		p.wg.Done()
		p.done <- struct{}{}
	}()

	r.result <- r.job(r.ctx)
}
