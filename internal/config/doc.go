// Package config defines the configuration of the explorations site.
//
// Defaults live in struct tags and are applied by
// NewConfigurationWithOptionsAndDefaults (creasty/defaults). The command line layers
// a config file, EXPLORATIONS_* environment variables and flags on top
// through viper. Keys use dashes; environment variables replace dots and
// dashes with underscores:
//
//	task-queue.max-drain-iterations  →  EXPLORATIONS_TASK_QUEUE_MAX_DRAIN_ITERATIONS
//
// # Configuration Structure
//
//	Configuration
//	├── Server     - HTTP listener and host name
//	├── Auth       - local identity provider, sessions and csrf tokens
//	├── Datastore  - storage backend settings
//	├── TaskQueue  - queue.yaml location, drain bound and task runner
//	├── Mail       - sender address
//	├── Storage    - S3 bucket for exploration images
//	├── LogFormat  - "console" or "json"
//	└── LogLevel   - zap level
//
// # Task Queue
//
//	┌──────────────────────┬─────────┬──────────────────────────────────────┐
//	│ Key                  │ Default │ Description                          │
//	├──────────────────────┼─────────┼──────────────────────────────────────┤
//	│ root-path            │ "."     │ folder holding queue.yaml            │
//	│ max-drain-iterations │ 100     │ rounds a test drain may take         │
//	│ workers              │ 4       │ task runner pool size                │
//	│ poll-interval        │ 1s      │ task runner polling period           │
//	│ max-retries          │ 5       │ retries before a task is dropped     │
//	└──────────────────────┴─────────┴──────────────────────────────────────┘
//
// # Auth
//
// The secrets default to fixed strings so tests and the development server
// need no setup. They must be overridden anywhere else.
//
// # Code Generation
//
// Functional option helpers are generated by optgen:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Auth Datastore TaskQueue Mail Storage
//
// Every section gets New<Section>WithOptions, New<Section>WithOptionsAndDefaults,
// WithOptions and one With<Field> option per field:
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(config.WithLogLevel("info"))
//	cfg.Server.WithOptions(config.WithHTTPPort(9000))
//
// # Debug Logging
//
// Fields carry a debugmap tag. The session and csrf secrets are
// "sensitive", so DebugFields can be logged as is:
//
//	log.Infow("configuration loaded", "config", cfg.DebugFields())
package config
