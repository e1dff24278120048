package taskrunner

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/explorationlab/explorations/internal/deferred"
	"github.com/explorationlab/explorations/internal/handlers"
	"github.com/explorationlab/explorations/internal/models"
)

// ExecutionError is returned when a task handler does not answer 200 or a
// deferred call fails. Status is zero for deferred calls.
type ExecutionError struct {
	Status int
	Body   string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor runs a task against the application in process.
type Executor struct {
	Handler  http.Handler
	Deferred *deferred.Registry
}

// Execute runs deferred tasks through the registry and POSTs every other
// task to its path with its payload and headers.
func (e *Executor) Execute(ctx context.Context, t *models.Task) error {
	if t.IsDeferred() {
		if err := e.Deferred.Run(ctx, t.Payload); err != nil {
			return &ExecutionError{Err: err}
		}
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, t.Path, bytes.NewReader(t.Payload)).WithContext(ctx)
	for k, values := range t.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	// Content-Length always follows the payload, whatever the stored headers say.
	req.ContentLength = int64(len(t.Payload))
	req.Header.Set("Content-Length", strconv.Itoa(len(t.Payload)))
	req.Header.Set(handlers.HeaderQueueName, t.Queue)
	req.Header.Set(handlers.HeaderTaskName, t.Name)

	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return &ExecutionError{Status: rec.Code, Body: rec.Body.String()}
	}
	return nil
}
