package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/response"
	"go.uber.org/zap"
)

// Recovery は panic を回復し、500 のエラー本文を返します。
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Error("[PANIC] Recovered",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("stacktrace", string(debug.Stack())),
				zap.String("requestId", c.GetString(response.RequestIDKey)),
			)

			if !c.Writer.Written() {
				response.Fail(c, http.StatusInternalServerError, "internal server error")
				return
			}
			c.Abort()
		}()

		c.Next()
	}
}
