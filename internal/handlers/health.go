package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Ping handles GET /api/ping, the liveness probe.
func (h *Handlers) Ping(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"message": "pong"})
}

// Health handles GET /health. It checks the database and reports pool usage;
// a failing database makes the whole check fail.
func (h *Handlers) Health(c *gin.Context) {
	check := h.db.Health(c.Request.Context())

	status := http.StatusOK
	if check.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    check.Status,
		"database":  check,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
