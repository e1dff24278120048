// Package platform describes what the application needs from the cloud
// environment it runs on. The gae and sql subpackages build it from the
// App Engine emulator and from DuckDB respectively.
package platform

import (
	"context"
	"net/http"

	"go.chromium.org/luci/common/clock"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/blob"
	"github.com/explorationlab/explorations/internal/mail"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/store"
)

type Services struct {
	// Ctx is the context for work that does not come from a request.
	Ctx        context.Context
	Store      *store.Store
	Queue      queue.TaskQueue
	Mail       mail.Outbox
	Blobs      blob.Storage
	URLs       auth.URLBuilder
	HTTPClient *http.Client
	Clock      clock.Clock
	// Attach returns the context request handlers pass to the services.
	Attach func(r *http.Request) context.Context

	closeFn func() error
}

// Options are the collaborators shared by every platform.
type Options struct {
	Clock      clock.Clock
	HTTPClient *http.Client
	Blobs      blob.Storage
}

func (o Options) WithDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.GetSystemClock()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}

// SetCloser registers the function Close runs.
func (s *Services) SetCloser(fn func() error) {
	s.closeFn = fn
}

func (s *Services) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
