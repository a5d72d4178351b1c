package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes wires the control API's middleware chain and route table.
func SetupRoutes(h *Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware())
	router.Use(ErrorHandlerMiddleware(logger))

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/fleet", h.GetFleetSummary)
		v1.GET("/batteries/:id", h.GetBatterySnapshot)
		v1.POST("/batteries/:id/control", h.ControlBattery)
	}

	return router
}
