package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// EmployeeHandler は社員 API を提供します。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Create は POST /api/employee/ を処理します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var body EmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.svc.CreateEmployee(c.Request.Context(), body.toCreateEmployeeInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", "/api/employee/"+created.ID)
	c.JSON(http.StatusCreated, toEmployeeBody(created))
}

// Get は GET /api/employee/:id を処理します。
func (h *EmployeeHandler) Get(c *gin.Context) {
	found, err := h.svc.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeBody(found))
}
