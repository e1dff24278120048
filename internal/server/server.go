package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/config"
)

const (
	readHeaderTimeout = 10 * time.Second

	// platformHeaderPrefix is the canonical prefix of the headers the task
	// runner sets on task requests.
	platformHeaderPrefix = "X-Appengine-"
)

// NewRouter returns a gin engine with logging and recovery installed.
// registerFn adds the routes.
func NewRouter(cfg *config.Configuration, registerFn func(router *gin.Engine)) *gin.Engine {
	if cfg.Server.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	logger := zap.L().Named("http")

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	registerFn(engine)
	return engine
}

// StripPlatformHeaders removes the X-AppEngine-* headers before next sees
// the request. Task handlers trust those headers, so only in-process callers
// may set them.
func StripPlatformHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name := range r.Header {
			if strings.HasPrefix(http.CanonicalHeaderKey(name), platformHeaderPrefix) {
				delete(r.Header, name)
			}
		}
		next.ServeHTTP(w, r)
	})
}

type Server struct {
	srv *http.Server
}

// NewServer serves handler on the configured host and port. Requests coming
// over the network lose their X-AppEngine-* headers.
func NewServer(cfg *config.Configuration, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Server.DefaultHostname(),
			Handler:           StripPlatformHeaders(handler),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start blocks until the server stops. A stop through Stop returns nil.
func (s *Server) Start(ctx context.Context) error {
	zap.S().Named("server").Infow("starting server", "addr", s.srv.Addr)
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	zap.S().Named("server").Info("stopping server")
	return s.srv.Shutdown(ctx)
}
