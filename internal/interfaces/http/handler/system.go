package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpilot/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes health and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db, startedAt: time.Now()}
}

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Health handles GET /health. It only reports that the process is up.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// ReadinessStatus is the readiness payload
type ReadinessStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Ready handles GET /ready. It fails when the database is unreachable so
// load balancers stop routing traffic here.
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, ReadinessStatus{
			Status:   "unavailable",
			Database: "down",
		})
		return
	}
	c.JSON(http.StatusOK, ReadinessStatus{
		Status:   "ready",
		Database: "up",
	})
}
