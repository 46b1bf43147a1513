package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	StartedAt time.Time
}

func NewHandler() *Handler {
	return &Handler{StartedAt: time.Now()}
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.StartedAt).Round(time.Second).String(),
	})
}
