// Package response は HTTP エラー応答の共通形式を提供します。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey は gin.Context に格納されるリクエスト ID のキーです。
const RequestIDKey = "requestId"

// RequestIDHeader はリクエスト ID を返却するレスポンスヘッダーです。
const RequestIDHeader = "X-Request-ID"

// Error はエラー時の JSON 本文です。
type Error struct {
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// Fail はエラー本文を書き込み、後続のハンドラーを中断します。
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Error{
		RequestID: c.GetString(RequestIDKey),
		Message:   message,
	})
}

// NotFound は本文なしの 404 を返します。
func NotFound(c *gin.Context) {
	c.AbortWithStatus(http.StatusNotFound)
}
