package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dropsync/catalog/config"
	"github.com/dropsync/catalog/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router. m may be nil, in which case
// no request metrics are recorded and /metrics is not served.
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger, m *metrics.Metrics) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	if m != nil {
		router.Use(MetricsMiddleware(m))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products")
		{
			products.POST("/normalize", handler.Normalize)
			products.POST("/validate", handler.Validate)
			products.POST("/import", handler.Import)
			products.POST("/import/bulk", handler.ImportBulk)
			products.POST("/import/file", handler.ImportFile)
			products.GET("/:platform/:externalId", handler.GetImported)
		}
	}

	return router
}
