package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imospy/infrastructure/logger"
	"imospy/usecase"
)

const (
	ErrorUnmarshal   = "Error while unmarshal"
	ErrorMissingUser = "unauthorized: missing user_id"
)

// respondError writes {"error": message} with the status mapped from err.
// Server errors are logged with their cause; the client only sees the
// public message.
func respondError(c *gin.Context, err error, fields logrus.Fields) {
	status := usecase.Status(err)
	entry := logger.GetLogger().WithFields(fields).WithField("error", err.Error()).WithField("path", c.FullPath())
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	c.JSON(status, gin.H{"error": usecase.PublicMessage(err)})
}

// userID returns the authenticated user, or writes 401 and returns "".
func userID(c *gin.Context) string {
	id := c.GetString("user_id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrorMissingUser})
	}
	return id
}
