// Package migration は golang-migrate を用いたスキーマ移行を提供します。
package migration

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Action はマイグレーションの操作種別です。
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

// Result は操作後のスキーマバージョンです。
type Result struct {
	Version uint
	Dirty   bool
	Applied bool
}

// Run は dir 配下のマイグレーションに対して action を実行します。
func Run(action Action, dir, dsn string) (Result, error) {
	sourceURL, err := SourceURL(dir)
	if err != nil {
		return Result{}, err
	}

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return Result{}, fmt.Errorf("migration: create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case ActionUp:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return Result{}, fmt.Errorf("migration: up: %w", err)
		}
	case ActionDown:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return Result{}, fmt.Errorf("migration: down: %w", err)
		}
	case ActionDrop:
		if err := m.Drop(); err != nil {
			return Result{}, fmt.Errorf("migration: drop: %w", err)
		}
		return Result{}, nil
	case ActionVersion:
	default:
		return Result{}, fmt.Errorf("migration: unsupported action %q", action)
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("migration: version: %w", err)
	}

	return Result{Version: version, Dirty: dirty, Applied: true}, nil
}

// SourceURL は dir を file:// 形式のソース URL に変換します。
func SourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("migration: resolve path for %s: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(absDir), nil
}

// WithMigrationsTable は DSN に x-migrations-table を付与します。
// シードのように別系列のバージョン管理が必要な場合に使用します。
func WithMigrationsTable(dsn, table string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("migration: parse dsn: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
