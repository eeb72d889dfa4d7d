package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orbitpm/orbitpm/internal/types"
	"go.uber.org/zap"
)

// RequestID assigns each request a unique id and a request-scoped logger.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.Header("X-Request-ID", requestID)
		ctx.Set(types.ContextLoggerKey, zap.L().With(zap.String("request_id", requestID)))

		ctx.Next()
	}
}
