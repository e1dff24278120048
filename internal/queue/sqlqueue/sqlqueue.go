// Package sqlqueue implements queue.TaskQueue on DuckDB tables. Tasks keep
// the order they were added in through the task_seq sequence.
package sqlqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
)

type TaskQueue struct {
	db  *sql.DB
	now func() time.Time
}

// New expects the tasks and queues tables to exist (see sqlstore migrations).
func New(db *sql.DB, now func() time.Time) *TaskQueue {
	if now == nil {
		now = time.Now
	}
	return &TaskQueue{db: db, now: now}
}

// CreateQueues inserts the defined queues.
func (q *TaskQueue) CreateQueues(ctx context.Context, defs queue.Definitions) error {
	rates := map[string]string{}
	for _, d := range defs.Queues {
		rates[d.Name] = d.Rate
	}
	for _, name := range defs.Names() {
		query, args, err := sq.Insert("queues").
			Columns("name", "rate").
			Values(name, rates[name]).
			Suffix("ON CONFLICT (name) DO UPDATE SET rate = EXCLUDED.rate").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create queue %s: %w", name, err)
		}
	}
	return nil
}

func (q *TaskQueue) Add(ctx context.Context, queueName string, tasks ...*models.Task) error {
	var count int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queues WHERE name = ?`, queueName).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("unknown queue %q", queueName)
	}

	for _, t := range tasks {
		if t.Name == "" {
			t.Name = uuid.NewString()
		}
		if t.Path == "" {
			t.Path = "/_ah/queue/" + queueName
		}
		if t.Method == "" {
			t.Method = http.MethodPost
		}
		if t.ETA.IsZero() {
			t.ETA = q.now().UTC()
		}
		t.Queue = queueName

		headers, err := json.Marshal(t.Header)
		if err != nil {
			return err
		}

		query, args, err := sq.Insert("tasks").
			Columns("name", "queue", "path", "method", "payload", "headers", "eta").
			Values(t.Name, t.Queue, t.Path, t.Method, t.Payload, string(headers), t.ETA).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to add task %s to %s: %w", t.Name, queueName, err)
		}
	}
	return nil
}

func (q *TaskQueue) Pending(ctx context.Context, queueNames ...string) ([]*models.Task, error) {
	builder := sq.Select("name", "queue", "path", "method", "payload", "headers", "eta").
		From("tasks").
		OrderBy("queue", "seq")
	if len(queueNames) > 0 {
		builder = builder.Where(sq.Eq{"queue": queueNames})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var (
			t       models.Task
			headers string
		)
		if err := rows.Scan(&t.Name, &t.Queue, &t.Path, &t.Method, &t.Payload, &headers, &t.ETA); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(headers), &t.Header); err != nil {
			return nil, err
		}
		if t.Header == nil {
			t.Header = http.Header{}
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (q *TaskQueue) Delete(ctx context.Context, tasks ...*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}

	query, args, err := sq.Delete("tasks").Where(sq.Eq{"name": names}).ToSql()
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, query, args...)
	return err
}

func (q *TaskQueue) Queues(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT name FROM queues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
