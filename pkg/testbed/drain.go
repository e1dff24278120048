package testbed

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/taskrunner"
)

// ProcessAndFlushPendingTasks runs every task pending on the named queues,
// or on all queues when none is named, until no task is left. Tasks that
// running tasks schedule are run too. The first failing task stops the
// drain; tasks run before it are not undone.
func (tb *TestBed) ProcessAndFlushPendingTasks(queueNames ...string) error {
	if !tb.setUp {
		return ErrNotSetUp
	}

	ctx := tb.Context()
	q := tb.services.Queue

	for round := 0; ; round++ {
		tasks, err := q.Pending(ctx, queueNames...)
		if err != nil {
			return fmt.Errorf("failed to list pending tasks: %w", err)
		}
		if len(tasks) == 0 {
			return nil
		}
		if round >= tb.cfg.TaskQueue.MaxDrainIterations {
			return fmt.Errorf("%w: %d tasks still pending after %d rounds", ErrDrainLimitExceeded, len(tasks), round)
		}

		// Tasks scheduled from here on belong to the next round.
		if err := q.Delete(ctx, tasks...); err != nil {
			return fmt.Errorf("failed to flush pending tasks: %w", err)
		}

		zap.S().Named("testbed").Debugw("draining tasks", "round", round, "count", len(tasks))
		for _, t := range tasks {
			if err := tb.runTask(t); err != nil {
				return err
			}
		}
	}
}

// CountJobsInTaskQueue returns the number of tasks pending on queueName,
// or on every queue when queueName is empty.
func (tb *TestBed) CountJobsInTaskQueue(queueName string) (int, error) {
	if !tb.setUp {
		return 0, ErrNotSetUp
	}
	var names []string
	if queueName != "" {
		names = []string{queueName}
	}
	tasks, err := tb.services.Queue.Pending(tb.Context(), names...)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (tb *TestBed) runTask(t *models.Task) error {
	exec := taskrunner.Executor{Handler: tb.app.Engine, Deferred: tb.app.Deferred}
	err := exec.Execute(tb.Context(), t)
	if err == nil {
		return nil
	}

	taskErr := &TaskExecutionError{Queue: t.Queue, Name: t.Name, URL: t.Path}
	var execErr *taskrunner.ExecutionError
	if errors.As(err, &execErr) {
		taskErr.Status = execErr.Status
		taskErr.Body = execErr.Body
		taskErr.Err = execErr.Err
	} else {
		taskErr.Err = err
	}
	return taskErr
}
