package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/service"
)

type RunController struct {
	probeService *service.ProbeService
}

func NewRunController(probeService *service.ProbeService) *RunController {
	return &RunController{probeService: probeService}
}

type runRequest struct {
	Language string `json:"language"`
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// Start runs the plan synchronously and answers with the settled report.
func (rc *RunController) Start(c *gin.Context) {
	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if lang := c.Query("language"); lang != "" {
		req.Language = lang
	}

	// A client that hangs up does not abort the run; the plan always settles.
	report, err := rc.probeService.Run(context.WithoutCancel(c.Request.Context()), req.Language)
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "current": rc.probeService.Current()})
		return
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Latest returns the ledger as it stands, including a run in flight.
func (rc *RunController) Latest(c *gin.Context) {
	c.JSON(http.StatusOK, rc.probeService.Progress())
}

// Report returns the last settled report.
func (rc *RunController) Report(c *gin.Context) {
	report, ok := rc.probeService.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has finished yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rc *RunController) Language(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": rc.probeService.Language()})
}

func (rc *RunController) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang, err := rc.probeService.SetLanguage(req.Language)
	switch {
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNoPreferences):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": lang})
}
