package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) IHealthHandler {
	return &HealthHandler{version: version}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.version != "" {
		body["version"] = h.version
	}
	ctx.JSON(http.StatusOK, body)
}
