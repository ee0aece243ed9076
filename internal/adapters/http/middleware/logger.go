package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/response"
	"go.uber.org/zap"
)

// Logger は 1 リクエストごとにアクセスログを出力します。
// 5xx はハンドラーが c.Error に積んだエラーと共に Error レベルで記録します。
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipLogging(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("requestId", c.GetString(response.RequestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("[Request] failed", fields...)
		case status >= 400:
			logger.Warn("[Request] rejected", fields...)
		default:
			logger.Info("[Request] handled", fields...)
		}
	}
}

func skipLogging(path string) bool {
	return strings.HasPrefix(path, "/metrics") ||
		strings.HasPrefix(path, "/health") ||
		strings.HasPrefix(path, "/debug/pprof")
}
