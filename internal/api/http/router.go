package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"giwa/sdk-probe/internal/api/http/middleware"
)

func NewRouter(healthController *HealthController, runController *RunController, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(log), middleware.CORS())

	router.GET("/health", healthController.Health)
	router.GET("/status", healthController.Status)
	router.GET("/ready", healthController.Ready)
	router.GET("/info", healthController.Info)

	runs := router.Group("/runs")
	runs.POST("", runController.Start)
	runs.GET("/latest", runController.Latest)
	runs.GET("/report", runController.Report)

	router.GET("/language", runController.Language)
	router.PUT("/language", runController.SetLanguage)

	return router
}
