package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/deferred"
	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/services"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

type Handler struct {
	explorationSrv *services.ExplorationService
	configSrv      *services.ConfigService
	userSrv        *services.UserService
	assetSrv       *services.AssetService
	deferred       *deferred.Registry
	csrf           *auth.CSRFTokens
	urls           auth.URLBuilder
	attach         func(*http.Request) context.Context
}

type Deps struct {
	Explorations *services.ExplorationService
	Config       *services.ConfigService
	Users        *services.UserService
	Assets       *services.AssetService
	Deferred     *deferred.Registry
	CSRF         *auth.CSRFTokens
	URLs         auth.URLBuilder
	// Attach returns the context passed to the services for a request.
	Attach func(*http.Request) context.Context
}

func New(deps Deps) *Handler {
	attach := deps.Attach
	if attach == nil {
		attach = func(r *http.Request) context.Context { return r.Context() }
	}
	return &Handler{
		explorationSrv: deps.Explorations,
		configSrv:      deps.Config,
		userSrv:        deps.Users,
		assetSrv:       deps.Assets,
		deferred:       deps.Deferred,
		csrf:           deps.CSRF,
		urls:           deps.URLs,
		attach:         attach,
	}
}

// Register adds every route of the application to router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/", h.GetSplash)

	router.GET("/admin", h.requireSuperAdmin, h.GetAdminPage)
	router.GET("/adminhandler", h.requireSuperAdmin, h.GetAdminData)
	router.POST("/adminhandler", h.requireSuperAdmin, h.requireCSRF, h.PostAdminAction)

	router.GET("/editor_prerequisites", h.requireLogin, h.GetEditorPrerequisitesPage)
	router.POST("/editor_prerequisites_handler/data", h.requireLogin, h.requireCSRF, h.PostEditorPrerequisites)

	router.POST("/contributehandler/create_new", h.requireLogin, h.requireCSRF, h.CreateExploration)
	router.GET("/explorehandler/init/:id", h.GetExploration)
	router.PUT("/createhandler/data/:id", h.requireLogin, h.requireCSRF, h.UpdateExploration)
	router.POST("/createhandler/publish/:id", h.requireLogin, h.requireCSRF, h.PublishExploration)
	router.POST("/createhandler/imageupload/:id", h.requireLogin, h.requireCSRF, h.UploadImage)
	router.GET("/imagehandler/:id/:filename", h.GetImage)

	router.POST(services.IndexExplorationPath, h.IndexExploration)
	router.POST(models.DeferredPath, h.RunDeferred)
}

func (h *Handler) ctx(c *gin.Context) context.Context {
	return h.attach(c.Request)
}

func (h *Handler) requireLogin(c *gin.Context) {
	if auth.IdentityFrom(c).IsAnonymous() {
		renderError(c, srvErrors.NewUnauthorizedError())
		return
	}
	c.Next()
}

func (h *Handler) requireSuperAdmin(c *gin.Context) {
	id := auth.IdentityFrom(c)
	if id.IsAnonymous() {
		renderError(c, srvErrors.NewUnauthorizedError())
		return
	}
	if !id.IsSuperAdmin {
		renderError(c, srvErrors.NewForbiddenError("super admin rights required"))
		return
	}
	c.Next()
}

func (h *Handler) requireCSRF(c *gin.Context) {
	if err := h.csrf.Validate(auth.IdentityFrom(c).UserID, c.PostForm(auth.CSRFField)); err != nil {
		renderError(c, err)
		return
	}
	c.Next()
}

// requireEditor lets registered editors through.
func (h *Handler) requireEditor(c *gin.Context) bool {
	ok, err := h.userSrv.IsRegistered(h.ctx(c), auth.IdentityFrom(c).UserID)
	if err != nil {
		renderError(c, err)
		return false
	}
	if !ok {
		renderError(c, srvErrors.NewForbiddenError("you must register as an editor first"))
		return false
	}
	return true
}

func (h *Handler) basePage(c *gin.Context, title string) (page, error) {
	id := auth.IdentityFrom(c)
	p := page{Title: title, Email: id.Email}

	dest := c.Request.URL.RequestURI()
	var err error
	if id.IsAnonymous() {
		p.LoginURL, err = h.urls.LoginURL(h.ctx(c), dest)
	} else {
		p.LogoutURL, err = h.urls.LogoutURL(h.ctx(c), dest)
	}
	return p, err
}
