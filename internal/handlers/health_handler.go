package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	mailConfigured func() bool
}

func NewHealthHandler(mailConfigured func() bool) *HealthHandler {
	return &HealthHandler{mailConfigured: mailConfigured}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	mail := "mocked"
	if h.mailConfigured() {
		mail = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mail":   mail,
	})
}
