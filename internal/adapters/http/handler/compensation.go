package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
)

// CompensationHandler は報酬 API を提供します。
type CompensationHandler struct {
	svc compensation.UseCase
}

// NewCompensationHandler は CompensationHandler を生成します。
func NewCompensationHandler(svc compensation.UseCase) *CompensationHandler {
	return &CompensationHandler{svc: svc}
}

// Create は POST /api/compensation/ を処理します。
func (h *CompensationHandler) Create(c *gin.Context) {
	var body CompensationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.svc.CreateCompensation(c.Request.Context(), body.toCreateCompensationInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", "/api/compensation/"+created.EmployeeID)
	c.JSON(http.StatusCreated, toCompensationBody(created))
}

// GetByEmployeeID は GET /api/compensation/:employeeId を処理します。
func (h *CompensationHandler) GetByEmployeeID(c *gin.Context) {
	found, err := h.svc.GetCompensationByEmployeeID(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCompensationBody(found))
}

// History は GET /api/compensation/:employeeId/history を処理します。
func (h *CompensationHandler) History(c *gin.Context) {
	history, err := h.svc.ListCompensationHistory(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		writeError(c, err)
		return
	}

	bodies := make([]CompensationBody, 0, len(history))
	for _, record := range history {
		bodies = append(bodies, toCompensationBody(record))
	}
	c.JSON(http.StatusOK, bodies)
}
