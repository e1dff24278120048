// Package gaequeue implements queue.TaskQueue on the App Engine task queue
// service. Pending, Delete and Queues need the testable in-memory
// implementation installed in the context.
package gaequeue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	tq "go.chromium.org/luci/gae/service/taskqueue"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
)

var errNotTestable = errors.New("task queue in context is not testable")

type TaskQueue struct {
	seq atomic.Uint64
}

func New() *TaskQueue {
	return &TaskQueue{}
}

// CreateQueues registers the defined queues with the in-memory service.
func CreateQueues(ctx context.Context, defs queue.Definitions) error {
	t := tq.GetTestable(ctx)
	if t == nil {
		return errNotTestable
	}
	for _, name := range defs.Names() {
		if name == models.DefaultQueue {
			continue
		}
		t.CreateQueue(name)
	}
	return nil
}

func (q *TaskQueue) Add(ctx context.Context, queueName string, tasks ...*models.Task) error {
	converted := make([]*tq.Task, 0, len(tasks))
	for _, t := range tasks {
		// Sequential names keep tasks sharing an ETA in the order they were added.
		if t.Name == "" {
			t.Name = fmt.Sprintf("task-%012d-%s", q.seq.Add(1), uuid.NewString()[:8])
		}
		t.Queue = queueName
		converted = append(converted, fromModel(t))
	}
	return tq.Add(ctx, queueName, converted...)
}

func (q *TaskQueue) Pending(ctx context.Context, queueNames ...string) ([]*models.Task, error) {
	t := tq.GetTestable(ctx)
	if t == nil {
		return nil, errNotTestable
	}

	scheduled := t.GetScheduledTasks()
	if len(queueNames) == 0 {
		queueNames = sortedKeys(scheduled)
	}

	var pending []*models.Task
	for _, name := range queueNames {
		for _, task := range scheduled[name] {
			pending = append(pending, toModel(name, task))
		}
	}
	queue.SortTasks(pending)
	return pending, nil
}

func (q *TaskQueue) Delete(ctx context.Context, tasks ...*models.Task) error {
	byQueue := map[string][]*tq.Task{}
	for _, t := range tasks {
		byQueue[t.Queue] = append(byQueue[t.Queue], &tq.Task{Name: t.Name})
	}
	for name, ts := range byQueue {
		if err := tq.Delete(ctx, name, ts...); err != nil {
			return err
		}
	}
	return nil
}

func (q *TaskQueue) Queues(ctx context.Context) ([]string, error) {
	t := tq.GetTestable(ctx)
	if t == nil {
		return nil, errNotTestable
	}
	return sortedKeys(t.GetScheduledTasks()), nil
}

func fromModel(t *models.Task) *tq.Task {
	return &tq.Task{
		Name:    t.Name,
		Path:    t.Path,
		Method:  t.Method,
		Payload: t.Payload,
		Header:  t.Header.Clone(),
		ETA:     t.ETA,
	}
}

func toModel(queueName string, t *tq.Task) *models.Task {
	header := t.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &models.Task{
		Name:    t.Name,
		Queue:   queueName,
		Path:    t.Path,
		Method:  t.Method,
		Payload: t.Payload,
		Header:  header,
		ETA:     t.ETA,
	}
}

func sortedKeys(data tq.QueueData) []string {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
