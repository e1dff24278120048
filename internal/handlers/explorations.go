package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/models"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const maxImageSize = 5 << 20

// CreateExploration creates a default exploration for a registered editor
// (POST /contributehandler/create_new)
func (h *Handler) CreateExploration(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}

	var req createExplorationRequest
	if err := bindPayload(c, createExplorationSchema, &req); err != nil {
		renderError(c, err)
		return
	}

	id := req.ExplorationID
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	exp := models.NewDefaultExploration(id, req.Title, req.Category)
	if err := h.explorationSrv.SaveNew(h.ctx(c), auth.IdentityFrom(c).UserID, exp); err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{"exploration_id": exp.ID})
}

// GetExploration returns a published exploration, or any exploration to
// someone who can edit it
// (GET /explorehandler/init/:id)
func (h *Handler) GetExploration(c *gin.Context) {
	ctx := h.ctx(c)
	exp, err := h.explorationSrv.Get(ctx, c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	if !exp.Published {
		ok, err := h.explorationSrv.CanEdit(ctx, auth.IdentityFrom(c), exp)
		if err != nil {
			renderError(c, err)
			return
		}
		if !ok {
			renderError(c, srvErrors.NewExplorationNotFoundError(exp.ID))
			return
		}
	}

	renderJSON(c, http.StatusOK, gin.H{
		"exploration_id": exp.ID,
		"title":          exp.Title,
		"category":       exp.Category,
		"objective":      exp.Objective,
		"init_state":     exp.InitStateName,
		"states":         exp.States,
		"version":        exp.Version,
		"published":      exp.Published,
	})
}

// UpdateExploration changes the editable fields of an exploration
// (PUT /createhandler/data/:id)
func (h *Handler) UpdateExploration(c *gin.Context) {
	var req updateExplorationRequest
	if err := bindPayload(c, updateExplorationSchema, &req); err != nil {
		renderError(c, err)
		return
	}

	exp, err := h.explorationSrv.Update(h.ctx(c), auth.IdentityFrom(c), c.Param("id"), req.Version, models.ExplorationChanges{
		Title:     req.Title,
		Category:  req.Category,
		Objective: req.Objective,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{"version": exp.Version, "title": exp.Title, "category": exp.Category, "objective": exp.Objective})
}

// PublishExploration publishes an exploration
// (POST /createhandler/publish/:id)
func (h *Handler) PublishExploration(c *gin.Context) {
	exp, err := h.explorationSrv.Publish(h.ctx(c), auth.IdentityFrom(c), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{"version": exp.Version, "published": exp.Published})
}

// UploadImage stores the multipart "image" file for an exploration
// (POST /createhandler/imageupload/:id)
func (h *Handler) UploadImage(c *gin.Context) {
	ctx := h.ctx(c)
	exp, err := h.explorationSrv.Get(ctx, c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	ok, err := h.explorationSrv.CanEdit(ctx, auth.IdentityFrom(c), exp)
	if err != nil {
		renderError(c, err)
		return
	}
	if !ok {
		renderError(c, srvErrors.NewForbiddenError("you cannot edit exploration "+exp.ID))
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		renderError(c, srvErrors.NewValidationError("no image supplied"))
		return
	}
	if fh.Size > maxImageSize {
		renderError(c, srvErrors.NewValidationError("image is larger than %d bytes", maxImageSize))
		return
	}
	f, err := fh.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		renderError(c, err)
		return
	}

	filename := c.PostForm("filename")
	if filename == "" {
		filename = fh.Filename
	}
	if err := h.assetSrv.SaveImage(ctx, exp.ID, filename, data); err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{"filepath": filename})
}

// GetImage serves a stored image
// (GET /imagehandler/:id/:filename)
func (h *Handler) GetImage(c *gin.Context) {
	data, contentType, err := h.assetSrv.GetImage(h.ctx(c), c.Param("id"), c.Param("filename"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
