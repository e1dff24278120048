// Package sql builds the platform services on DuckDB.
package sql

import (
	"context"
	"net/http"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/mail"
	"github.com/explorationlab/explorations/internal/platform"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/queue/sqlqueue"
	"github.com/explorationlab/explorations/internal/store/sqlstore"
)

func New(ctx context.Context, cfg *config.Configuration, opts platform.Options) (*platform.Services, error) {
	opts = opts.WithDefaults()

	db, err := sqlstore.NewDB(cfg.Datastore.Path)
	if err != nil {
		return nil, err
	}

	st, err := sqlstore.New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	defs, err := queue.LoadDefinitions(cfg.TaskQueue.RootPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	tq := sqlqueue.New(db, opts.Clock.Now)
	if err := tq.CreateQueues(ctx, defs); err != nil {
		_ = st.Close()
		return nil, err
	}

	s := &platform.Services{
		Ctx:        ctx,
		Store:      st,
		Queue:      tq,
		Mail:       mail.NewRecorder(),
		Blobs:      opts.Blobs,
		URLs:       auth.LocalURLBuilder{Hostname: cfg.Server.DefaultHostname()},
		HTTPClient: opts.HTTPClient,
		Clock:      opts.Clock,
		Attach: func(r *http.Request) context.Context {
			return r.Context()
		},
	}
	s.SetCloser(st.Close)
	return s, nil
}
