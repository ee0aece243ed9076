package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/core/reporting"
)

// ReportingHandler は組織構造 API を提供します。
type ReportingHandler struct {
	svc reporting.UseCase
}

// NewReportingHandler は ReportingHandler を生成します。
func NewReportingHandler(svc reporting.UseCase) *ReportingHandler {
	return &ReportingHandler{svc: svc}
}

// Get は GET /api/reportingStructure/:id を処理します。
func (h *ReportingHandler) Get(c *gin.Context) {
	rs, err := h.svc.GetReportingStructure(c.Request.Context(), reporting.GetReportingStructureInput{EmployeeID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReportingStructureBody(rs))
}
