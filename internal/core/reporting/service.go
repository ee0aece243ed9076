package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// EmployeeFinder は ID で社員を取得します。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// TransactionManager は読み取り専用トランザクションの抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は組織構造ユースケースの公開インターフェースです。
type UseCase interface {
	GetReportingStructure(ctx context.Context, in GetReportingStructureInput) (*ReportingStructure, error)
}

// GetReportingStructureInput は組織構造取得時の入力です。
type GetReportingStructureInput struct {
	EmployeeID string
}

// Service は部下の総数を算出します。
type Service struct {
	employees EmployeeFinder
	tx        TransactionManager
}

// NewService は Service を生成します。
func NewService(employees EmployeeFinder, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{employees: employees, tx: tx}
}

// GetReportingStructure は社員の直属・間接の部下の総数を返します。
// 社員が存在しない場合は employee.ErrEmployeeNotFound を返します。
func (s *Service) GetReportingStructure(ctx context.Context, in GetReportingStructureInput) (*ReportingStructure, error) {
	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		return nil, employee.ErrEmployeeNotFound
	}

	var result *ReportingStructure
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		root, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		size, err := s.subtreeSize(txCtx, root)
		if err != nil {
			return err
		}

		result = &ReportingStructure{Employee: root, NumberOfReports: size - 1}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// subtreeSize は e 自身を含む部分木の社員数を返します。
// 部下はメモリ上のグラフを信用せず、毎回ストアから取得し直します。
// 循環参照は想定していません。
func (s *Service) subtreeSize(ctx context.Context, e *employee.Employee) (int, error) {
	size := 1
	for _, reportID := range e.DirectReports {
		report, err := s.employees.FindByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return 0, fmt.Errorf("%w: %s (manager %s)", ErrBrokenHierarchy, reportID, e.ID)
			}
			return 0, err
		}

		n, err := s.subtreeSize(ctx, report)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}
