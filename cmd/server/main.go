package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/http/router"
	"github.com/ogurasousui/codex-org-chart/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
	"github.com/ogurasousui/codex-org-chart/internal/core/reporting"
	"github.com/ogurasousui/codex-org-chart/internal/platform/config"
	"github.com/ogurasousui/codex-org-chart/internal/platform/db/migration"
	pg "github.com/ogurasousui/codex-org-chart/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-org-chart/internal/platform/health"
	"github.com/ogurasousui/codex-org-chart/internal/platform/logger"
	"github.com/ogurasousui/codex-org-chart/internal/platform/metrics"
	"github.com/ogurasousui/codex-org-chart/internal/platform/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	pflag.Parse()

	if err := run(config.ResolvePath(*configPath)); err != nil {
		fmt.Fprintf(os.Stderr, "server stopped with error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.AutoMigrate {
		res, err := migration.Run(migration.ActionUp, cfg.Database.MigrationsDir, cfg.Database.DSN())
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Uint("version", res.Version), zap.Bool("dirty", res.Dirty))
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	compensationRepo := postgres.NewCompensationRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, nil, nil, txManager)
	compensationSvc := compensation.NewService(compensationRepo, employeeRepo, nil, nil, txManager)
	reportingSvc := reporting.NewService(employeeRepo, txManager)

	var (
		grpcServer *grpc.Server
		grpcHealth *grpchealth.Server
	)
	if cfg.Server.GRPCListenAddr != "" {
		grpcServer, grpcHealth = server.NewGRPCHealthServer()
	}
	healthSvc := health.NewService(grpcHealth)

	engine := router.New(cfg.Server, log, metrics.New("org_chart"), router.Handlers{
		Employee:     handler.NewEmployeeHandler(employeeSvc),
		Compensation: handler.NewCompensationHandler(compensationSvc),
		Reporting:    handler.NewReportingHandler(reportingSvc),
		Health:       handler.NewHealthHandler(healthSvc),
	})

	srv := server.New(server.Options{
		HTTPAddr:        cfg.Server.ListenAddr,
		GRPCAddr:        cfg.Server.GRPCListenAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, engine, grpcServer, healthSvc, log)

	return srv.Run(ctx)
}
