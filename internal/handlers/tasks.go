package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/services"
	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const (
	// HeaderQueueName and HeaderTaskName are set on every task request by the
	// queue runner. Task handlers refuse requests without them.
	HeaderQueueName = "X-AppEngine-QueueName"
	HeaderTaskName  = "X-AppEngine-TaskName"
)

func requireTaskHeaders(c *gin.Context) bool {
	if c.GetHeader(HeaderQueueName) == "" {
		renderError(c, srvErrors.NewForbiddenError("task handlers only accept requests from the task queue"))
		return false
	}
	return true
}

// IndexExploration marks a published exploration as indexed
// (POST /tasks/index_exploration)
func (h *Handler) IndexExploration(c *gin.Context) {
	if !requireTaskHeaders(c) {
		return
	}

	var req services.IndexRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		renderError(c, srvErrors.NewValidationError("invalid index request: %v", err))
		return
	}

	if err := h.explorationSrv.MarkIndexed(h.ctx(c), req.ExplorationID); err != nil {
		renderError(c, err)
		return
	}

	zap.S().Named("task_handler").Infow("exploration indexed",
		"id", req.ExplorationID,
		"queue", c.GetHeader(HeaderQueueName),
		"task", c.GetHeader(HeaderTaskName))
	renderJSON(c, http.StatusOK, gin.H{})
}

// RunDeferred runs the call descriptor in the request body
// (POST /_ah/queue/deferred)
func (h *Handler) RunDeferred(c *gin.Context) {
	if !requireTaskHeaders(c) {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := h.deferred.Run(h.ctx(c), payload); err != nil {
		renderError(c, err)
		return
	}
	renderJSON(c, http.StatusOK, gin.H{})
}
