package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const (
	// JSONPrefix is written before every JSON body so the response cannot be
	// evaluated as a script by another origin.
	JSONPrefix = ")]}'\n"

	ContentTypeJSON = "application/javascript"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// renderJSON writes v as a prefixed JSON document.
func renderJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.S().Named("handler").Errorw("failed to encode response", "path", c.Request.URL.Path, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response","code":500}`)
	}
	c.Data(status, ContentTypeJSON+"; charset=utf-8", append([]byte(JSONPrefix), body...))
}

// renderError maps err to a status code and writes it in the JSON envelope.
func renderError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.S().Named("handler").Errorw("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		msg = "internal server error"
	}
	renderJSON(c, status, errorResponse{Error: msg, Code: status})
	c.Abort()
}

func statusOf(err error) int {
	switch {
	case srvErrors.IsValidationError(err):
		return http.StatusBadRequest
	case srvErrors.IsUnauthorizedError(err):
		return http.StatusUnauthorized
	case srvErrors.IsForbiddenError(err), srvErrors.IsInvalidCSRFError(err):
		return http.StatusForbidden
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsVersionMismatchError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
