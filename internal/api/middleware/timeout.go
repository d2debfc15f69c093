package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maitri-diet/internal/pkg/common"
)

// RequestContext 為請求加上逾時並帶入請求 ID，供對外呼叫使用
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := common.RequestID(c)
		ctx := common.WithRequestID(c.Request.Context(), requestID)

		var cancel context.CancelFunc
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("請求逾時",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestID),
				zap.Duration("timeout", timeout),
			)
			common.WriteError(c, common.ErrGatewayTimeout, timeout.String())
		}
	}
}
