package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/service"
)

// ReadinessCheck reports whether the SDK backend is reachable.
type ReadinessCheck func(ctx context.Context) error

type HealthController struct {
	probeService *service.ProbeService
	agentID      string
	version      string
	ready        ReadinessCheck
}

// NewHealthController builds the controller. ready may be nil when the SDK
// runs in-process.
func NewHealthController(probeService *service.ProbeService, agentID, version string, ready ReadinessCheck) *HealthController {
	return &HealthController{
		probeService: probeService,
		agentID:      agentID,
		version:      version,
		ready:        ready,
	}
}

func (h *HealthController) Health(c *gin.Context) {
	if err := h.probeService.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, domain.HealthResponse{
			Status:    domain.HealthStatusUnhealthy,
			Timestamp: time.Now(),
			AgentID:   h.agentID,
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    domain.HealthStatusHealthy,
		Timestamp: time.Now(),
		AgentID:   h.agentID,
		Message:   "Agent is running",
	})
}

func (h *HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.probeService.GetStatus())
}

// Ready requires the service loop and, when configured, a healthy SDK backend.
func (h *HealthController) Ready(c *gin.Context) {
	err := h.probeService.HealthCheck(c.Request.Context())
	if err == nil && h.ready != nil {
		err = h.ready(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"agent":     h.agentID,
			"message":   err.Error(),
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"agent":     h.agentID,
		"message":   "Agent is ready to run probes",
		"timestamp": time.Now(),
	})
}

func (h *HealthController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"agent_id":  h.agentID,
		"status":    h.probeService.GetStatus(),
		"version":   h.version,
		"language":  h.probeService.Language(),
		"timestamp": time.Now(),
		"components": []string{
			"probe_runner",
			"result_ledger",
			"run_consumer",
			"outcome_publisher",
		},
	})
}
