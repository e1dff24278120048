package testbed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.chromium.org/luci/common/clock"

	"github.com/explorationlab/explorations/internal/app"
	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/blob"
	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/platform"
	"github.com/explorationlab/explorations/internal/queue"
)

// TestBed runs the application in process on an emulated platform. Create
// one per test, call SetUp before and TearDown after. A TestBed must not be
// shared between goroutines.
type TestBed struct {
	cfg     *config.Configuration
	backend Backend
	clock   clock.Clock
	fetch   *FetchStub
	routes  []func(*gin.Engine)
	ids     auth.IdentityProvider
	out     io.Writer

	env      *Environment
	app      *app.App
	services *platform.Services
	s3       *httptest.Server
	setUp    bool
}

type Option func(*TestBed)

// WithBackend selects the platform emulation. The default is GAEBackend.
func WithBackend(b Backend) Option {
	return func(tb *TestBed) {
		tb.backend = b
	}
}

// WithConfig replaces the baseline configuration.
func WithConfig(cfg *config.Configuration) Option {
	return func(tb *TestBed) {
		tb.cfg = cfg
	}
}

// WithRoutes registers extra handlers next to the application's routes.
func WithRoutes(fn func(*gin.Engine)) Option {
	return func(tb *TestBed) {
		tb.routes = append(tb.routes, fn)
	}
}

func WithClock(c clock.Clock) Option {
	return func(tb *TestBed) {
		tb.clock = c
	}
}

// WithFetchStub answers the application's outbound requests from stub.
func WithFetchStub(stub *FetchStub) Option {
	return func(tb *TestBed) {
		tb.fetch = stub
	}
}

// WithIdentityProvider replaces the provider deriving user ids and login URLs.
func WithIdentityProvider(p auth.IdentityProvider) Option {
	return func(tb *TestBed) {
		tb.ids = p
	}
}

// WithLogOutput sets where LogLine writes. The default is stdout.
func WithLogOutput(w io.Writer) Option {
	return func(tb *TestBed) {
		tb.out = w
	}
}

func New(opts ...Option) *TestBed {
	tb := &TestBed{out: os.Stdout}
	for _, opt := range opts {
		opt(tb)
	}
	if tb.backend == nil {
		tb.backend = NewGAEBackend()
	}
	if tb.fetch == nil {
		tb.fetch = NewFetchStub()
	}
	if tb.clock == nil {
		tb.clock = clock.GetSystemClock()
	}
	if tb.ids == nil {
		tb.ids = auth.NewFakeIdentityProvider(platformURLs{tb: tb})
	}
	tb.env = NewEnvironment(tb.ids)
	return tb
}

// platformURLs builds login URLs with the URL builder of the running
// platform.
type platformURLs struct {
	tb *TestBed
}

func (u platformURLs) LoginURL(ctx context.Context, dest string) (string, error) {
	if u.tb.services == nil {
		return "", ErrNotSetUp
	}
	return u.tb.services.URLs.LoginURL(ctx, dest)
}

func (u platformURLs) LogoutURL(ctx context.Context, dest string) (string, error) {
	if u.tb.services == nil {
		return "", ErrNotSetUp
	}
	return u.tb.services.URLs.LogoutURL(ctx, dest)
}

// NewConfiguration returns the baseline configuration: domain example.com,
// host localhost:8080, a consistent datastore and queues from rootPath.
func NewConfiguration(rootPath string) *config.Configuration {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	cfg.Server.WithOptions(
		config.WithServerMode("test"),
		config.WithServerName("localhost"),
		config.WithHTTPHost("localhost"),
		config.WithHTTPPort(8080),
	)
	cfg.Auth.WithOptions(config.WithAuthDomain("example.com"))
	cfg.Datastore.WithOptions(config.WithConsistent(true), config.WithPath(":memory:"))
	cfg.TaskQueue.WithOptions(config.WithRootPath(rootPath))
	return cfg
}

// SetUp starts a clean emulated platform and the application on top of it.
func (tb *TestBed) SetUp() error {
	if tb.setUp {
		return errors.New("test bed is already set up")
	}

	if tb.cfg == nil {
		root, err := findQueueRoot()
		if err != nil {
			return err
		}
		tb.cfg = NewConfiguration(root)
	}
	if tb.cfg.TaskQueue.MaxDrainIterations <= 0 {
		return fmt.Errorf("max drain iterations must be positive, got %d", tb.cfg.TaskQueue.MaxDrainIterations)
	}
	gin.SetMode(gin.TestMode)

	ctx := context.Background()

	tb.s3 = blob.NewFakeServer()
	storageCfg := tb.cfg.Storage
	storageCfg.Endpoint = tb.s3.URL
	blobs, err := blob.NewS3Storage(ctx, storageCfg)
	if err != nil {
		tb.s3.Close()
		return err
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		tb.s3.Close()
		return err
	}

	services, err := tb.backend.Init(ctx, tb.cfg, platform.Options{
		Clock:      tb.clock,
		HTTPClient: tb.fetch.Client(),
		Blobs:      blobs,
	})
	if err != nil {
		tb.s3.Close()
		return fmt.Errorf("failed to start %s backend: %w", tb.backend.Name(), err)
	}
	tb.services = services
	tb.app = app.New(tb.cfg, services, tb.routes...)
	tb.setUp = true
	return nil
}

// TearDown logs out, drops any stash, deletes every stored record and
// stops the platform.
func (tb *TestBed) TearDown() error {
	if !tb.setUp {
		return nil
	}
	tb.env = NewEnvironment(tb.ids)

	ctx := context.Background()
	errs := []error{tb.DeleteAllModels()}
	errs = append(errs, tb.backend.TearDown(ctx))
	tb.s3.Close()
	tb.fetch.Reset()

	tb.setUp = false
	tb.app = nil
	tb.services = nil
	return errors.Join(errs...)
}

// DeleteAllModels removes every stored record from the backend.
func (tb *TestBed) DeleteAllModels() error {
	if !tb.setUp {
		return ErrNotSetUp
	}
	return tb.backend.DeleteAll(tb.Context())
}

// Context is the context to call application services with directly.
func (tb *TestBed) Context() context.Context {
	if tb.services == nil {
		return context.Background()
	}
	return tb.services.Ctx
}

func (tb *TestBed) Config() *config.Configuration {
	return tb.cfg
}

func (tb *TestBed) App() *app.App {
	return tb.app
}

func (tb *TestBed) Services() *platform.Services {
	return tb.services
}

func (tb *TestBed) Backend() Backend {
	return tb.backend
}

func (tb *TestBed) FetchStub() *FetchStub {
	return tb.fetch
}

// MailMessages returns the mail the application sent.
func (tb *TestBed) MailMessages() ([]models.MailMessage, error) {
	if !tb.setUp {
		return nil, ErrNotSetUp
	}
	return tb.services.Mail.Messages(tb.Context())
}

// findQueueRoot walks up from the working directory to the folder holding
// queue.yaml.
func findQueueRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, queue.DefinitionsFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("queue.yaml not found in any parent of the working directory")
		}
		dir = parent
	}
}
