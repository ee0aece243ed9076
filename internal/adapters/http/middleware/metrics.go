package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/platform/metrics"
)

// Metrics はルート単位でリクエスト数とレイテンシを記録します。
// ルートには実パスではなく登録パターン（c.FullPath）を使います。
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
