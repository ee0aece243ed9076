package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/codex-org-chart/internal/platform/config"
)

// DefaultApplicationName は pg_stat_activity に表示される既定の接続名です。
const DefaultApplicationName = "org-chart"

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// 未設定の値は pgx の既定値を使い、application_name だけは DefaultApplicationName で補います。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	for name, value := range runtimeParams(cfg) {
		poolCfg.ConnConfig.RuntimeParams[name] = value
	}

	return poolCfg, nil
}

// runtimeParams は接続ごとに送るセッションパラメータです。
// statement_timeout は報告構造の走査や報酬履歴の読み取りが長引いた場合に文単位で打ち切ります。
func runtimeParams(cfg config.DatabaseConfig) map[string]string {
	params := map[string]string{
		"application_name": cfg.ApplicationName,
	}
	if params["application_name"] == "" {
		params["application_name"] = DefaultApplicationName
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return params
}

// NewPool は社員・報酬リポジトリとトランザクション管理で共有するプールを生成し、疎通を確認します。
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool for %s@%s:%d/%s: %w", cfg.User, cfg.Host, cfg.Port, cfg.Name, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	return pool, nil
}
