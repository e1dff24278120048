// Package deferred runs named functions later through the task queue.
//
// A deferred task targets models.DeferredPath and carries a JSON call
// descriptor:
//
//	{"func": "notify_moderators", "args": {"exploration_id": "exp0"}}
//
// In production the descriptor is POSTed to the deferred handler, which
// calls Registry.Run. The test harness calls Run directly.
package deferred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
)

var ErrUnknownFunc = errors.New("deferred function is not registered")

// Func is a function that can be deferred. args is the raw JSON given to Defer.
type Func func(ctx context.Context, args json.RawMessage) error

// Call is the descriptor stored in a deferred task payload.
type Call struct {
	Func string          `json:"func"`
	Args json.RawMessage `json:"args,omitempty"`
}

type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register binds name to fn. Registering a name twice replaces the function.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defer schedules name(args) on queueName.
func (r *Registry) Defer(ctx context.Context, q queue.TaskQueue, queueName, name string, args any) error {
	r.mu.RLock()
	_, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunc, name)
	}

	payload, err := NewPayload(name, args)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return q.Add(ctx, queueName, &models.Task{
		Path:    models.DeferredPath,
		Method:  http.MethodPost,
		Payload: payload,
		Header:  header,
	})
}

// Run decodes a call descriptor and invokes the function it names.
func (r *Registry) Run(ctx context.Context, payload []byte) error {
	var call Call
	if err := json.Unmarshal(payload, &call); err != nil {
		return fmt.Errorf("failed to decode deferred call: %w", err)
	}

	r.mu.RLock()
	fn, ok := r.funcs[call.Func]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunc, call.Func)
	}

	zap.S().Named("deferred").Debugw("running deferred call", "func", call.Func)
	if err := fn(ctx, call.Args); err != nil {
		return fmt.Errorf("deferred call %s failed: %w", call.Func, err)
	}
	return nil
}

// NewPayload encodes a call descriptor.
func NewPayload(name string, args any) ([]byte, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments of %s: %w", name, err)
	}
	return json.Marshal(Call{Func: name, Args: raw})
}
