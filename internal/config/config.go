package config

import (
	"net"
	"strconv"
	"time"

	"github.com/ecordell/optgen/helpers"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Auth Datastore TaskQueue Mail Storage

type Configuration struct {
	Server    Server    `mapstructure:"server" debugmap:"visible"`
	Auth      Auth      `mapstructure:"auth" debugmap:"visible"`
	Datastore Datastore `mapstructure:"datastore" debugmap:"visible"`
	TaskQueue TaskQueue `mapstructure:"task-queue" debugmap:"visible"`
	Mail      Mail      `mapstructure:"mail" debugmap:"visible"`
	Storage   Storage   `mapstructure:"storage" debugmap:"visible"`
	LogFormat string    `mapstructure:"log-format" default:"console" debugmap:"visible"`
	LogLevel  string    `mapstructure:"log-level" default:"debug" debugmap:"visible"`
}

type Server struct {
	ServerMode string `mapstructure:"mode" default:"dev" debugmap:"visible"`
	ServerName string `mapstructure:"name" default:"localhost" debugmap:"visible"`
	HTTPHost   string `mapstructure:"http-host" default:"localhost" debugmap:"visible"`
	HTTPPort   int    `mapstructure:"http-port" default:"8080" debugmap:"visible"`
}

type Auth struct {
	AuthDomain    string        `mapstructure:"domain" default:"example.com" debugmap:"visible"`
	SessionSecret string        `mapstructure:"session-secret" default:"not-a-secret" debugmap:"sensitive"`
	CSRFSecret    string        `mapstructure:"csrf-secret" default:"not-a-secret-either" debugmap:"sensitive"`
	SessionTTL    time.Duration `mapstructure:"session-ttl" default:"24h" debugmap:"visible"`
	CSRFTokenTTL  time.Duration `mapstructure:"csrf-token-ttl" default:"48h" debugmap:"visible"`
}

type Datastore struct {
	// Consistent makes every write immediately visible to queries.
	Consistent bool   `mapstructure:"consistent" default:"true" debugmap:"visible"`
	Path       string `mapstructure:"path" default:":memory:" debugmap:"visible"`
}

type TaskQueue struct {
	// RootPath is the folder holding queue.yaml.
	RootPath           string `mapstructure:"root-path" default:"." debugmap:"visible"`
	MaxDrainIterations int    `mapstructure:"max-drain-iterations" default:"100" debugmap:"visible"`

	// Workers, PollInterval and MaxRetries drive the development server's
	// task runner.
	Workers      int           `mapstructure:"workers" default:"4" debugmap:"visible"`
	PollInterval time.Duration `mapstructure:"poll-interval" default:"1s" debugmap:"visible"`
	MaxRetries   int           `mapstructure:"max-retries" default:"5" debugmap:"visible"`
}

type Mail struct {
	Sender string `mapstructure:"sender" default:"admin@example.com" debugmap:"visible"`
}

type Storage struct {
	Bucket   string `mapstructure:"bucket" default:"explorations-assets" debugmap:"visible"`
	Region   string `mapstructure:"region" default:"us-east-1" debugmap:"visible"`
	Endpoint string `mapstructure:"endpoint" debugmap:"visible"`
}

// DebugFields returns DebugMap with every section expanded and the keys
// flattened to "Section.Field". Sensitive values are masked.
func (c *Configuration) DebugFields() map[string]any {
	m := c.DebugMap()
	m["Server"] = c.Server.DebugMap()
	m["Auth"] = c.Auth.DebugMap()
	m["Datastore"] = c.Datastore.DebugMap()
	m["TaskQueue"] = c.TaskQueue.DebugMap()
	m["Mail"] = c.Mail.DebugMap()
	m["Storage"] = c.Storage.DebugMap()
	return helpers.Flatten(m)
}

// DefaultHostname is the host:port pair the application believes it serves.
func (s Server) DefaultHostname() string {
	return net.JoinHostPort(s.HTTPHost, strconv.Itoa(s.HTTPPort))
}
