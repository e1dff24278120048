// Package app wires the services and handlers of the application on top of
// a platform.
package app

import (
	"github.com/gin-gonic/gin"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/config"
	"github.com/explorationlab/explorations/internal/deferred"
	"github.com/explorationlab/explorations/internal/handlers"
	"github.com/explorationlab/explorations/internal/platform"
	"github.com/explorationlab/explorations/internal/server"
	"github.com/explorationlab/explorations/internal/services"
)

type App struct {
	Engine   *gin.Engine
	Deferred *deferred.Registry
	Sessions *auth.SessionCodec
	CSRF     *auth.CSRFTokens
	Platform *platform.Services

	Explorations *services.ExplorationService
	Config       *services.ConfigService
	Users        *services.UserService
}

// New builds the application. extraRoutes are registered after the
// application's own routes.
func New(cfg *config.Configuration, p *platform.Services, extraRoutes ...func(*gin.Engine)) *App {
	registry := deferred.NewRegistry()
	sessions := auth.NewSessionCodec(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, p.Clock)
	csrf := auth.NewCSRFTokens(cfg.Auth.CSRFSecret, cfg.Auth.CSRFTokenTTL, p.Clock)

	configSrv := services.NewConfigService(p.Store)
	userSrv := services.NewUserService(p.Store, configSrv, p.Mail, p.Clock, cfg.Mail.Sender)
	explorationSrv := services.NewExplorationService(services.ExplorationServiceDeps{
		Store:      p.Store,
		Queue:      p.Queue,
		Deferred:   registry,
		Config:     configSrv,
		Mailer:     p.Mail,
		HTTPClient: p.HTTPClient,
		Clock:      p.Clock,
		Sender:     cfg.Mail.Sender,
	})

	h := handlers.New(handlers.Deps{
		Explorations: explorationSrv,
		Config:       configSrv,
		Users:        userSrv,
		Assets:       services.NewAssetService(p.Blobs),
		Deferred:     registry,
		CSRF:         csrf,
		URLs:         p.URLs,
		Attach:       p.Attach,
	})

	engine := server.NewRouter(cfg, func(router *gin.Engine) {
		router.Use(auth.Authenticate(sessions))
		h.Register(router)
		for _, fn := range extraRoutes {
			fn(router)
		}
	})

	return &App{
		Engine:       engine,
		Deferred:     registry,
		Sessions:     sessions,
		CSRF:         csrf,
		Platform:     p,
		Explorations: explorationSrv,
		Config:       configSrv,
		Users:        userSrv,
	}
}
