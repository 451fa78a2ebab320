package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
)

// NewRouter wires the stream routes and the operational endpoints.
func NewRouter(stream *StreamHandler, metrics http.Handler, health healthcheck.HealthCheck) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", gin.WrapH(health))
	router.GET("/metrics", gin.WrapH(metrics))
	stream.Register(router)

	return router
}
