// Package gae builds the platform services on the in-memory App Engine
// emulator. Every service reads its implementation from the context built
// here, so request handlers run with Services.Ctx instead of the request's.
package gae

import (
	"context"
	"fmt"
	"net/http"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/gae/impl/memory"
	ds "go.chromium.org/luci/gae/service/datastore"
	gaemail "go.chromium.org/luci/gae/service/mail"
	"go.chromium.org/luci/gae/service/user"

	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/mail"
	"github.com/explorationlab/explorations/internal/platform"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/queue/gaequeue"
	"github.com/explorationlab/explorations/internal/store/gaestore"
)

// URLBuilder builds login URLs with the emulated users service.
type URLBuilder struct{}

func (URLBuilder) LoginURL(ctx context.Context, dest string) (string, error) {
	return user.LoginURL(ctx, dest)
}

func (URLBuilder) LogoutURL(ctx context.Context, dest string) (string, error) {
	return user.LogoutURL(ctx, dest)
}

func New(ctx context.Context, cfg *config.Configuration, opts platform.Options) (*platform.Services, error) {
	opts = opts.WithDefaults()

	ctx = memory.Use(ctx)
	ctx = clock.Set(ctx, opts.Clock)

	dt := ds.GetTestable(ctx)
	dt.Consistent(cfg.Datastore.Consistent)
	dt.AutoIndex(true)

	defs, err := queue.LoadDefinitions(cfg.TaskQueue.RootPath)
	if err != nil {
		return nil, err
	}
	if err := gaequeue.CreateQueues(ctx, defs); err != nil {
		return nil, err
	}

	mt := gaemail.GetTestable(ctx)
	if mt == nil {
		return nil, fmt.Errorf("mail service is not testable")
	}
	mt.SetAdminEmails(cfg.Mail.Sender)

	s := &platform.Services{
		Ctx:        ctx,
		Store:      gaestore.New(),
		Queue:      gaequeue.New(),
		Mail:       mail.NewGAEMailer(),
		Blobs:      opts.Blobs,
		URLs:       URLBuilder{},
		HTTPClient: opts.HTTPClient,
		Clock:      opts.Clock,
		Attach: func(*http.Request) context.Context {
			return ctx
		},
	}
	return s, nil
}
