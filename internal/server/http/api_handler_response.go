package http

import (
	"errors"
	"net/http"

	"cassandra/internal/logging"
	"cassandra/internal/server/app"

	"github.com/gin-gonic/gin"
)

func writeJSON(c *gin.Context, status int, payload gin.H) {
	payload["success"] = status < http.StatusBadRequest
	c.JSON(status, payload)
}

// writeError sends {"success":false,"error":msg}. Validation errors are 400,
// everything else 500.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	logger = logging.FromContext(c.Request.Context(), logger)
	status := http.StatusInternalServerError
	message := err.Error()
	if errors.Is(err, app.ErrValidation) {
		status = http.StatusBadRequest
		message = app.ValidationMessage(err)
		logger.Warn("HTTP %d - %s", status, message)
	} else {
		logger.Error("HTTP %d - %v", status, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

func writeBadRequest(c *gin.Context, logger logging.Logger, message string) {
	writeError(c, logger, app.ValidationError(message))
}
