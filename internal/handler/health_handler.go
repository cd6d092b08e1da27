package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/noticehub/notice-board-api/pkg/config"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	db  *sqlx.DB
	cfg config.DatabaseConfig
}

// NewHealthHandler creates a new handler.
func NewHealthHandler(db *sqlx.DB, cfg config.DatabaseConfig) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// Health godoc
// @Summary Database health
// @Description Pings the store and reports connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report := gin.H{
		"database": h.cfg.Name,
		"host":     h.cfg.Host,
		"port":     h.cfg.Port,
	}

	var one int
	if err := h.db.GetContext(c.Request.Context(), &one, "SELECT 1"); err != nil {
		report["status"] = "unhealthy"
		response.JSON(c, http.StatusServiceUnavailable, report)
		return
	}

	report["status"] = "healthy"
	response.JSON(c, http.StatusOK, report)
}

// Ready godoc
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ready"})
}
