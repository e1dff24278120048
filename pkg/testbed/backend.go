package testbed

import (
	"context"
	"errors"

	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/platform"
	gaeplatform "github.com/explorationlab/explorations/internal/platform/gae"
	sqlplatform "github.com/explorationlab/explorations/internal/platform/sql"
)

// Backend provides the emulated platform a TestBed runs the application on.
type Backend interface {
	Name() string
	// Init starts the emulated services for one test.
	Init(ctx context.Context, cfg *config.Configuration, opts platform.Options) (*platform.Services, error)
	// DeleteAll removes every stored record and pending task.
	DeleteAll(ctx context.Context) error
	// TearDown stops the services started by Init.
	TearDown(ctx context.Context) error
}

// GAEBackend runs on the in-memory App Engine emulator.
type GAEBackend struct {
	services *platform.Services
}

func NewGAEBackend() *GAEBackend {
	return &GAEBackend{}
}

func (b *GAEBackend) Name() string { return "gae" }

func (b *GAEBackend) Init(ctx context.Context, cfg *config.Configuration, opts platform.Options) (*platform.Services, error) {
	s, err := gaeplatform.New(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	b.services = s
	return s, nil
}

func (b *GAEBackend) DeleteAll(_ context.Context) error {
	if b.services == nil {
		return ErrNotSetUp
	}
	return deleteAll(b.services)
}

// TearDown drops the emulator. Its state lives in the context built by Init.
func (b *GAEBackend) TearDown(_ context.Context) error {
	if b.services == nil {
		return nil
	}
	err := b.services.Close()
	b.services = nil
	return err
}

// SQLBackend runs on an in-memory DuckDB database.
type SQLBackend struct {
	services *platform.Services
}

func NewSQLBackend() *SQLBackend {
	return &SQLBackend{}
}

func (b *SQLBackend) Name() string { return "sql" }

func (b *SQLBackend) Init(ctx context.Context, cfg *config.Configuration, opts platform.Options) (*platform.Services, error) {
	s, err := sqlplatform.New(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	b.services = s
	return s, nil
}

func (b *SQLBackend) DeleteAll(_ context.Context) error {
	if b.services == nil {
		return ErrNotSetUp
	}
	return deleteAll(b.services)
}

func (b *SQLBackend) TearDown(_ context.Context) error {
	if b.services == nil {
		return nil
	}
	err := b.services.Close()
	b.services = nil
	return err
}

// deleteAll runs with the services' own context, which carries the
// emulator for the gae backend.
func deleteAll(s *platform.Services) error {
	ctx := s.Ctx
	var errs []error
	if err := s.Store.DeleteAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if tasks, err := s.Queue.Pending(ctx); err != nil {
		errs = append(errs, err)
	} else if err := s.Queue.Delete(ctx, tasks...); err != nil {
		errs = append(errs, err)
	}
	if s.Blobs != nil {
		if err := s.Blobs.DeleteAll(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
