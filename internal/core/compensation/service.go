package compensation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は報酬レコードおよび新規社員の ID を払い出します。
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は報酬に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	employees employee.Repository
	clock     Clock
	ids       IDGenerator
	tx        TransactionManager
}

// UseCase は報酬ユースケースの公開インターフェースです。
type UseCase interface {
	CreateCompensation(ctx context.Context, in *CreateCompensationInput) (*Compensation, error)
	GetCompensationByEmployeeID(ctx context.Context, employeeID string) (*Compensation, error)
	ListCompensationHistory(ctx context.Context, employeeID string) ([]*Compensation, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees employee.Repository, clock Clock, ids IDGenerator, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, employees: employees, clock: clock, ids: ids, tx: tx}
}

// EmployeeInput は報酬作成時に指定される社員です。
// ID のみの参照、または新規社員の属性一式のどちらでも構いません。
type EmployeeInput struct {
	ID            string
	FirstName     string
	LastName      string
	Position      string
	Department    string
	DirectReports []string
}

// CreateCompensationInput は報酬作成時の入力です。
type CreateCompensationInput struct {
	Employee      EmployeeInput
	Salary        float64
	EffectiveDate time.Time
}

// CreateCompensation は報酬レコードを作成し、コミット後の内容を返します。
// in が nil の場合は何もせず nil を返します。
func (s *Service) CreateCompensation(ctx context.Context, in *CreateCompensationInput) (*Compensation, error) {
	if in == nil {
		return nil, nil
	}

	var created *Compensation
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()

		emp, err := s.resolveEmployee(txCtx, in.Employee, now)
		if err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Compensation{
			ID:            s.ids.NewID(),
			EmployeeID:    emp.ID,
			Salary:        in.Salary,
			EffectiveDate: normalizeDate(in.EffectiveDate),
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		result.Employee = emp
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetCompensationByEmployeeID は社員の最新の報酬レコードを社員情報付きで返します。
// 空の ID はストアに問い合わせず ErrCompensationNotFound を返します。
func (s *Service) GetCompensationByEmployeeID(ctx context.Context, employeeID string) (*Compensation, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return nil, ErrCompensationNotFound
	}

	var result *Compensation
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindLatestByEmployeeID(txCtx, id)
		if err != nil {
			return err
		}

		emp, err := s.findEmployee(txCtx, found.EmployeeID)
		if err != nil {
			return err
		}

		found.Employee = emp
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListCompensationHistory は社員の報酬履歴を発効日の降順で返します。
// 履歴が存在しない場合は空のスライスを返します。
func (s *Service) ListCompensationHistory(ctx context.Context, employeeID string) ([]*Compensation, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return []*Compensation{}, nil
	}

	var history []*Compensation
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		records, err := s.repo.ListByEmployeeID(txCtx, id)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			history = []*Compensation{}
			return nil
		}

		emp, err := s.findEmployee(txCtx, id)
		if err != nil {
			return err
		}
		for _, record := range records {
			record.Employee = emp
		}
		history = records
		return nil
	}); err != nil {
		return nil, err
	}

	return history, nil
}

// resolveEmployee は入力に対応する社員を返します。
// 既存 ID なら保存済みの社員を、未登録 ID や ID 未指定なら同じトランザクション内で社員を作成します。
func (s *Service) resolveEmployee(ctx context.Context, in EmployeeInput, now time.Time) (*employee.Employee, error) {
	id := strings.TrimSpace(in.ID)
	if id != "" {
		found, err := s.employees.FindByID(ctx, id)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
	} else {
		id = s.ids.NewID()
	}

	return s.employees.Create(ctx, &employee.Employee{
		ID:            id,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Position:      in.Position,
		Department:    in.Department,
		DirectReports: employee.NormalizeDirectReports(in.DirectReports),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Service) findEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
