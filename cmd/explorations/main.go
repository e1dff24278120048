package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.chromium.org/luci/common/clock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/explorationlab/explorations/internal/app"
	"github.com/explorationlab/explorations/internal/blob"
	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/platform"
	sqlplatform "github.com/explorationlab/explorations/internal/platform/sql"
	"github.com/explorationlab/explorations/internal/server"
	"github.com/explorationlab/explorations/internal/taskrunner"
)

const envPrefix = "EXPLORATIONS"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Configuration is read through the
// global viper instance, which the flag bindings share.
func newRootCommand() *cobra.Command {
	defaults := config.NewConfigurationWithOptionsAndDefaults()
	rf := newRootFlags(defaults)

	root := &cobra.Command{
		Use:               "explorations",
		Short:             "Exploration authoring server",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: cobrautil.SyncViperPreRunE(envPrefix),
	}
	cobraflags.Register(root, rf.all()...)

	root.AddCommand(newRunCommand(rf, defaults))
	return root
}

func newRunCommand(rf rootFlags, defaults *config.Configuration) *cobra.Command {
	flags := newRunFlags(defaults)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the application on DuckDB with an in-memory blob store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(rf, flags)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			zap.S().Named("main").Debugw("configuration loaded", "config", cfg.DebugFields())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}
	cobraflags.Register(cmd, flags.all()...)
	return cmd
}

// loadConfiguration layers flags over environment over the config file over
// the defaults. Flags also read EXPLORATIONS_<FLAG> (EXPLORATIONS_HTTP_PORT);
// every key reads EXPLORATIONS_<KEY> (EXPLORATIONS_SERVER_HTTP_PORT).
func loadConfiguration(rf rootFlags, flags runFlags) (*config.Configuration, error) {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	setDefaults(cfg)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if path := rf.config.GetString(); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if _, err := rf.logLevel.GetStringE(); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	if _, err := rf.logFormat.GetStringE(); err != nil {
		return nil, fmt.Errorf("invalid --log-format: %w", err)
	}
	if err := flags.bind(); err != nil {
		return nil, err
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *config.Configuration) {
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("log-format", cfg.LogFormat)

	viper.SetDefault("server.mode", cfg.Server.ServerMode)
	viper.SetDefault("server.name", cfg.Server.ServerName)
	viper.SetDefault("server.http-host", cfg.Server.HTTPHost)
	viper.SetDefault("server.http-port", cfg.Server.HTTPPort)

	viper.SetDefault("auth.domain", cfg.Auth.AuthDomain)
	viper.SetDefault("auth.session-secret", cfg.Auth.SessionSecret)
	viper.SetDefault("auth.csrf-secret", cfg.Auth.CSRFSecret)
	viper.SetDefault("auth.session-ttl", cfg.Auth.SessionTTL)
	viper.SetDefault("auth.csrf-token-ttl", cfg.Auth.CSRFTokenTTL)

	viper.SetDefault("datastore.consistent", cfg.Datastore.Consistent)
	viper.SetDefault("datastore.path", cfg.Datastore.Path)

	viper.SetDefault("task-queue.root-path", cfg.TaskQueue.RootPath)
	viper.SetDefault("task-queue.max-drain-iterations", cfg.TaskQueue.MaxDrainIterations)
	viper.SetDefault("task-queue.workers", cfg.TaskQueue.Workers)
	viper.SetDefault("task-queue.poll-interval", cfg.TaskQueue.PollInterval)
	viper.SetDefault("task-queue.max-retries", cfg.TaskQueue.MaxRetries)

	viper.SetDefault("mail.sender", cfg.Mail.Sender)

	viper.SetDefault("storage.bucket", cfg.Storage.Bucket)
	viper.SetDefault("storage.region", cfg.Storage.Region)
	viper.SetDefault("storage.endpoint", cfg.Storage.Endpoint)
}

func newLogger(cfg *config.Configuration) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	switch cfg.LogFormat {
	case "json":
		zcfg = zap.NewProductionConfig()
	case "console", "":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("main")

	storageCfg := cfg.Storage
	if storageCfg.Endpoint == "" {
		fake := blob.NewFakeServer()
		defer fake.Close()
		storageCfg.Endpoint = fake.URL
		log.Infow("using in-memory blob storage", "endpoint", fake.URL)
	}
	blobs, err := blob.NewS3Storage(ctx, storageCfg)
	if err != nil {
		return err
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		return err
	}

	services, err := sqlplatform.New(ctx, cfg, platform.Options{
		Clock: clock.GetSystemClock(),
		Blobs: blobs,
	})
	if err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Errorw("failed to close platform", "error", err)
		}
	}()

	a := app.New(cfg, services)

	pool := taskrunner.NewPool(cfg.TaskQueue.Workers)
	defer pool.Close()
	runner := taskrunner.NewRunner(
		services.Queue,
		&taskrunner.Executor{Handler: a.Engine, Deferred: a.Deferred},
		pool,
		services.Clock,
		cfg.TaskQueue.PollInterval,
		cfg.TaskQueue.MaxRetries,
	)
	go runner.Start(ctx)

	srv := server.NewServer(cfg, a.Engine)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
