// Package router は HTTP ルーティングとミドルウェアの組み立てを行います。
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/middleware"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/response"
	"github.com/ogurasousui/codex-org-chart/internal/platform/config"
	"github.com/ogurasousui/codex-org-chart/internal/platform/metrics"
	"go.uber.org/zap"
)

// Handlers はルーターに登録するハンドラー群です。
type Handlers struct {
	Employee     *handler.EmployeeHandler
	Compensation *handler.CompensationHandler
	Reporting    *handler.ReportingHandler
	Health       *handler.HealthHandler
}

// New は gin.Engine を構築します。
func New(cfg config.ServerConfig, logger *zap.Logger, m *metrics.Metrics, h Handlers) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSAllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{"Content-Type", response.RequestIDHeader},
			ExposeHeaders: []string{"Location", response.RequestIDHeader},
		}))
	}

	r.GET("/health/liveness", h.Health.Liveness)
	r.GET("/health/readiness", h.Health.Readiness)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	if cfg.PprofEnabled {
		pprof.Register(r)
	}

	api := r.Group("/api")
	{
		api.POST("/employee/", h.Employee.Create)
		api.GET("/employee/:id", h.Employee.Get)

		api.POST("/compensation/", h.Compensation.Create)
		api.GET("/compensation/:employeeId", h.Compensation.GetByEmployeeID)
		api.GET("/compensation/:employeeId/history", h.Compensation.History)

		api.GET("/reportingStructure/:id", h.Reporting.Get)
	}

	return r
}
