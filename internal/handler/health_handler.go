// internal/handler/health_handler.go
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db        *database.DB
	registry  *service.PrinterRegistry
	config    *config.Config
	startTime time.Time
	logger    *utils.ServiceLogger
}

// NewHealthHandler creates a new health handler. db is nil when job
// history is kept in memory.
func NewHealthHandler(db *database.DB, registry *service.PrinterRegistry, config *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		registry:  registry,
		config:    config,
		startTime: time.Now(),
		logger:    utils.NewServiceLogger(logger, "health-handler"),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/health/db", h.DatabaseHealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck performs general health check
// @Summary Health check
// @Description Overall service health including database and printer connections
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} HealthResponse "Service is unhealthy"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]CheckResult),
	}

	if h.db == nil {
		health.Checks["database"] = CheckResult{Status: "disabled", Message: "Job history kept in memory"}
	} else if stats, err := h.db.Health(c.Request.Context()); err != nil {
		health.Status = "unhealthy"
		health.Checks["database"] = CheckResult{Status: "unhealthy", Message: err.Error()}
	} else {
		health.Checks["database"] = CheckResult{Status: "healthy", Message: "Database connection OK", Data: stats}
	}

	// an unopened printer is not a failure; connections open on the first job
	printers := make(map[string]interface{})
	for _, info := range h.registry.Infos() {
		printers[info.ID] = gin.H{
			"model":         info.Model,
			"connected":     info.Connected,
			"bytes_written": info.Stats.BytesWritten,
			"errors":        info.Stats.ErrorCount,
		}
	}
	health.Checks["printers"] = CheckResult{Status: "healthy", Data: printers}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, health)
}

// DatabaseHealthCheck checks database connectivity
// @Summary Database health check
// @Description Check database connectivity and pool statistics
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse "Database is healthy"
// @Failure 503 {object} utils.APIResponse "Database is unhealthy or disabled"
// @Router /health/db [get]
func (h *HealthHandler) DatabaseHealthCheck(c *gin.Context) {
	if h.db == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database disabled", nil)
		return
	}

	startTime := time.Now()
	stats, err := h.db.Health(c.Request.Context())
	if err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database unhealthy", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Database is healthy", gin.H{
		"status":           "healthy",
		"response_time_ms": time.Since(startTime).Milliseconds(),
		"stats":            stats,
	})
}

// ReadinessCheck reports whether jobs can be accepted: at least one printer
// is configured and, when enabled, the job store answers
// @Summary Readiness check
// @Description Ready when printers are configured and the job store is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,printers=int} "Service is ready"
// @Failure 503 {object} object{status=string,reason=string} "Service is not ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	printers := len(h.registry.List())
	if printers == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "no printers configured"})
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("Job store not reachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "job store unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "printers": printers})
}

// LivenessCheck for Kubernetes liveness probe
// @Summary Liveness check
// @Description Check if service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
