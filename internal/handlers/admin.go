package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

// GetSplash renders the landing page
// (GET /)
func (h *Handler) GetSplash(c *gin.Context) {
	p, err := h.basePage(c, "Welcome")
	if err != nil {
		renderError(c, err)
		return
	}
	p.Content = "Create and share interactive explorations."
	renderPage(c, p, "", map[string]any{
		"login_url":  p.LoginURL,
		"logout_url": p.LogoutURL,
	})
}

// GetAdminPage renders the admin page with a csrf token
// (GET /admin)
func (h *Handler) GetAdminPage(c *gin.Context) {
	p, err := h.basePage(c, "Admin")
	if err != nil {
		renderError(c, err)
		return
	}
	id := auth.IdentityFrom(c)
	renderPage(c, p, h.csrf.Issue(id.UserID), map[string]any{
		"user_email": id.Email,
	})
}

// GetAdminData returns every config property
// (GET /adminhandler)
func (h *Handler) GetAdminData(c *gin.Context) {
	props, err := h.configSrv.All(h.ctx(c))
	if err != nil {
		renderError(c, err)
		return
	}

	byName := make(map[models.ConfigPropertyName]models.ConfigProperty, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}
	renderJSON(c, http.StatusOK, gin.H{"config_properties": byName})
}

// PostAdminAction runs an admin action
// (POST /adminhandler)
func (h *Handler) PostAdminAction(c *gin.Context) {
	var req adminActionRequest
	if err := bindPayload(c, adminActionSchema, &req); err != nil {
		renderError(c, err)
		return
	}

	ctx := h.ctx(c)
	id := auth.IdentityFrom(c)

	switch req.Action {
	case "save_config_properties":
		if err := h.configSrv.SetProperties(ctx, req.NewConfigPropertyValues); err != nil {
			renderError(c, err)
			return
		}
		zap.S().Named("admin_handler").Infow("config properties updated", "admin", id.Email)
		renderJSON(c, http.StatusOK, gin.H{})
	case "import_exploration":
		exp, err := h.explorationSrv.ImportYAML(ctx, id.UserID, req.URL)
		if err != nil {
			renderError(c, err)
			return
		}
		renderJSON(c, http.StatusOK, gin.H{"exploration_id": exp.ID})
	default:
		renderError(c, srvErrors.NewValidationError("unknown action %q", req.Action))
	}
}

// GetEditorPrerequisitesPage renders the editor sign up page
// (GET /editor_prerequisites)
func (h *Handler) GetEditorPrerequisitesPage(c *gin.Context) {
	p, err := h.basePage(c, "Become an editor")
	if err != nil {
		renderError(c, err)
		return
	}
	id := auth.IdentityFrom(c)

	registered, err := h.userSrv.IsRegistered(h.ctx(c), id.UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, p, h.csrf.Issue(id.UserID), map[string]any{
		"has_registered": registered,
	})
}

// PostEditorPrerequisites registers the caller as an editor
// (POST /editor_prerequisites_handler/data)
func (h *Handler) PostEditorPrerequisites(c *gin.Context) {
	var req registerEditorRequest
	if err := bindPayload(c, registerEditorSchema, &req); err != nil {
		renderError(c, err)
		return
	}

	settings, err := h.userSrv.Register(h.ctx(c), auth.IdentityFrom(c), req.Username, req.AgreedToTerms)
	if err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{"username": settings.Username})
}
