package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker は liveness / readiness を返します。
type HealthChecker interface {
	IsLive() bool
	IsReady() bool
}

// HealthHandler はヘルスチェック API を提供します。
type HealthHandler struct {
	status HealthChecker
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(status HealthChecker) *HealthHandler {
	return &HealthHandler{status: status}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.status.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.status.IsReady() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}
