package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-extras/cobraflags"
	"go.uber.org/zap/zapcore"

	"github.com/explorationlab/explorations/internal/config"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	config    *cobraflags.StringFlag
	logLevel  *cobraflags.StringFlag
	logFormat *cobraflags.StringFlag
}

func newRootFlags(defaults *config.Configuration) rootFlags {
	return rootFlags{
		config: &cobraflags.StringFlag{
			Name:       "config",
			Usage:      "Path to a configuration file (yaml, json or toml)",
			Persistent: true,
		},
		logLevel: &cobraflags.StringFlag{
			Name:       "log-level",
			Usage:      "Log level (debug, info, warn, error)",
			Value:      defaults.LogLevel,
			Persistent: true,
			ValidateFunc: func(level string) error {
				_, err := zapcore.ParseLevel(level)
				return err
			},
		},
		logFormat: &cobraflags.StringFlag{
			Name:       "log-format",
			Usage:      "Log format (console or json)",
			Value:      defaults.LogFormat,
			Persistent: true,
			ValidateFunc: func(format string) error {
				if !slices.Contains([]string{"console", "json"}, format) {
					return fmt.Errorf("unknown log format %q", format)
				}
				return nil
			},
		},
	}
}

func (f rootFlags) all() []cobraflags.Flag {
	return []cobraflags.Flag{f.config, f.logLevel, f.logFormat}
}

// runFlags override single configuration keys for the run command.
type runFlags struct {
	httpHost        *cobraflags.StringFlag
	httpPort        *cobraflags.IntFlag
	datastorePath   *cobraflags.StringFlag
	queueRoot       *cobraflags.StringFlag
	storageEndpoint *cobraflags.StringFlag
}

func newRunFlags(defaults *config.Configuration) runFlags {
	return runFlags{
		httpHost: &cobraflags.StringFlag{
			Name:     "http-host",
			ViperKey: "server.http-host",
			Usage:    "Address the server listens on",
			Value:    defaults.Server.HTTPHost,
		},
		httpPort: &cobraflags.IntFlag{
			Name:     "http-port",
			ViperKey: "server.http-port",
			Usage:    "Port the server listens on",
			Value:    defaults.Server.HTTPPort,
			ValidateFunc: func(port int) error {
				if port < 1 || port > 65535 {
					return errors.New("port must be between 1 and 65535")
				}
				return nil
			},
		},
		datastorePath: &cobraflags.StringFlag{
			Name:     "datastore-path",
			ViperKey: "datastore.path",
			Usage:    "DuckDB database file, :memory: for an in-memory database",
			Value:    defaults.Datastore.Path,
		},
		queueRoot: &cobraflags.StringFlag{
			Name:     "queue-root",
			ViperKey: "task-queue.root-path",
			Usage:    "Folder holding queue.yaml",
			Value:    defaults.TaskQueue.RootPath,
		},
		storageEndpoint: &cobraflags.StringFlag{
			Name:     "storage-endpoint",
			ViperKey: "storage.endpoint",
			Usage:    "S3 endpoint; an in-memory server is started when empty",
			Value:    defaults.Storage.Endpoint,
		},
	}
}

func (f runFlags) all() []cobraflags.Flag {
	return []cobraflags.Flag{f.httpHost, f.httpPort, f.datastorePath, f.queueRoot, f.storageEndpoint}
}

// bind ties every flag to its configuration key and validates the value
// the key resolves to.
func (f runFlags) bind() error {
	if _, err := f.httpHost.GetStringE(); err != nil {
		return fmt.Errorf("invalid --http-host: %w", err)
	}
	if _, err := f.httpPort.GetIntE(); err != nil {
		return fmt.Errorf("invalid --http-port: %w", err)
	}
	if _, err := f.datastorePath.GetStringE(); err != nil {
		return fmt.Errorf("invalid --datastore-path: %w", err)
	}
	if _, err := f.queueRoot.GetStringE(); err != nil {
		return fmt.Errorf("invalid --queue-root: %w", err)
	}
	if _, err := f.storageEndpoint.GetStringE(); err != nil {
		return fmt.Errorf("invalid --storage-endpoint: %w", err)
	}
	return nil
}
