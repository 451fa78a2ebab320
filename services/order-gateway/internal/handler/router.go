package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/metrics"
)

// NewRouter wires middleware, the trading routes and the operational endpoints.
func NewRouter(
	orders *OrderHandler,
	verifier auth.Verifier,
	m *metrics.Metrics,
	health healthcheck.HealthCheck,
	log logger.Interface,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), m.Middleware(), AccessLog(log))

	router.GET("/health", gin.WrapH(health))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	trading := router.Group("/api/trading", Authenticate(verifier))
	orders.Register(trading)

	return router
}
