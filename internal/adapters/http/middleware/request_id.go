package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/response"
)

const maxRequestIDLength = 128

// RequestID はリクエスト ID を採番し、コンテキストとレスポンスヘッダーに設定します。
// クライアントが X-Request-ID を送った場合はそれを引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(response.RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = newRequestID()
		}

		c.Set(response.RequestIDKey, id)
		c.Header(response.RequestIDHeader, id)
		c.Next()
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
