package models

import (
	"net/http"
	"time"
)

const (
	// DeferredPath is the task target that carries a deferred call descriptor
	// instead of an HTTP request.
	DeferredPath = "/_ah/queue/deferred"

	DefaultQueue = "default"
)

// Task is a unit of background work scheduled on a queue.
type Task struct {
	Name    string
	Queue   string
	Path    string
	Method  string
	Payload []byte
	Header  http.Header
	ETA     time.Time
}

// IsDeferred reports whether the task must go through the deferred runner.
func (t *Task) IsDeferred() bool {
	return t.Path == DeferredPath
}

// MailMessage is an outgoing email.
type MailMessage struct {
	Sender  string
	To      []string
	Subject string
	Body    string
}
