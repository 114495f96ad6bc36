package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cobranza/backend/internal/infrastructure/persistence"
)

// SystemHandler handles operational endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	env       string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		env:       env,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the system routes on a router group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.Ping)
	rg.GET("/info", h.Info)
}

// Ping responds to liveness probes
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Info returns basic service information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":   h.appName,
		"env":    h.env,
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Health reports readiness including database connectivity. Mounted outside
// the versioned API so probes skip tenant middleware.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, gin.H{
		"status": status,
		"name":   h.appName,
	})
}
