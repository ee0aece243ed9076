package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/response"
	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// statusFor はドメインエラーを HTTP ステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, compensation.ErrCompensationNotFound),
		errors.Is(err, compensation.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrDirectReportNotFound):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrEmployeeAlreadyExists),
		errors.Is(err, compensation.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーに応じた応答を書き込みます。
// 404 は本文なし、500 は詳細を隠してアクセスログにのみ残します。
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		response.NotFound(c)
	case http.StatusInternalServerError:
		response.Fail(c, status, "internal server error")
	default:
		response.Fail(c, status, err.Error())
	}
}

// writeBindError は JSON の構文・型エラーを 400 として返します。
func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	response.Fail(c, http.StatusBadRequest, "malformed request body: "+err.Error())
}
