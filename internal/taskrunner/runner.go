// Package taskrunner executes queued tasks against the application.
//
// The Executor replays one task in process. The Runner is the development
// server's stand-in for the platform's queue dispatcher: it polls the queue,
// runs due tasks on a Pool and schedules failed tasks again later.
package taskrunner

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.chromium.org/luci/common/clock"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
)

// HeaderRetryCount counts earlier failed attempts of a task.
const HeaderRetryCount = "X-AppEngine-TaskRetryCount"

type Runner struct {
	queue      queue.TaskQueue
	executor   *Executor
	pool       *Pool
	clock      clock.Clock
	interval   time.Duration
	maxRetries int
}

func NewRunner(q queue.TaskQueue, executor *Executor, pool *Pool, clk clock.Clock, interval time.Duration, maxRetries int) *Runner {
	return &Runner{
		queue:      q,
		executor:   executor,
		pool:       pool,
		clock:      clk,
		interval:   interval,
		maxRetries: maxRetries,
	}
}

// Start polls the queue until ctx is done.
func (r *Runner) Start(ctx context.Context) {
	log := zap.S().Named("task_runner")
	log.Infow("task runner started", "interval", r.interval)
	for {
		if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("failed to run tasks", "error", err)
		}
		if tr := clock.Sleep(clock.Set(ctx, r.clock), r.interval); tr.Err != nil {
			log.Info("task runner stopped")
			return
		}
	}
}

// RunOnce runs the tasks that are due and returns how many succeeded.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.queue.Pending(ctx)
	if err != nil {
		return 0, err
	}

	now := r.clock.Now()
	var due []*models.Task
	for _, t := range pending {
		if !t.ETA.After(now) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}
	if err := r.queue.Delete(ctx, due...); err != nil {
		return 0, err
	}

	futures := make([]*Future, len(due))
	for i, t := range due {
		futures[i] = r.pool.Submit(func(jobCtx context.Context) error {
			return r.executor.Execute(jobCtx, t)
		})
	}

	succeeded := 0
	for i, f := range futures {
		err := f.Wait(ctx)
		if err == nil {
			succeeded++
			continue
		}
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return succeeded, ctx.Err()
		}
		r.retry(ctx, due[i], err)
	}
	return succeeded, nil
}

func (r *Runner) retry(ctx context.Context, t *models.Task, cause error) {
	log := zap.S().Named("task_runner")

	attempts, _ := strconv.Atoi(t.Header.Get(HeaderRetryCount))
	if attempts >= r.maxRetries {
		log.Errorw("task dropped after retries", "queue", t.Queue, "task", t.Name, "path", t.Path, "attempts", attempts+1, "error", cause)
		return
	}

	delay := retryDelay(attempts)
	header := t.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	retried := &models.Task{
		Queue:   t.Queue,
		Path:    t.Path,
		Method:  t.Method,
		Payload: t.Payload,
		Header:  header,
		ETA:     r.clock.Now().Add(delay),
	}
	retried.Header.Set(HeaderRetryCount, strconv.Itoa(attempts+1))

	if err := r.queue.Add(ctx, t.Queue, retried); err != nil {
		log.Errorw("failed to reschedule task", "queue", t.Queue, "task", t.Name, "error", err)
		return
	}
	log.Warnw("task failed, retrying", "queue", t.Queue, "task", t.Name, "path", t.Path, "delay", delay, "error", cause)
}

// retryDelay is the exponential backoff delay after attempts failures.
func retryDelay(attempts int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 5 * time.Minute
	b.RandomizationFactor = 0
	b.Reset()
	delay := b.NextBackOff()
	for range attempts {
		delay = b.NextBackOff()
	}
	return delay
}
