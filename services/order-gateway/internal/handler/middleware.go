package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/util"
)

const (
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"

	userIDKey = "userId"
)

// RequestID stores the incoming X-Request-ID, or a fresh one, in the request
// context and echoes it back. The client ip is stored alongside it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := util.WithRequestID(c.Request.Context(), c.GetHeader(HeaderRequestID))
		ctx = util.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, util.GetRequestID(ctx))
		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.InfoContext(c.Request.Context(), "http request",
			logger.Field{Key: "method", Value: c.Request.Method},
			logger.Field{Key: "path", Value: c.Request.URL.Path},
			logger.Field{Key: "status", Value: c.Writer.Status()},
			logger.Field{Key: "latency_ms", Value: time.Since(start).Milliseconds()},
		)
	}
}

// Authenticate requires a valid bearer token and stores its userId.
func Authenticate(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(util.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
