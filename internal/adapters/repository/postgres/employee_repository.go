package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-org-chart/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"

	directReportsReportFKey = "employee_direct_reports_report_id_fkey"
)

var (
	directReportsTable   = pgx.Identifier{"employee_direct_reports"}
	directReportsColumns = []string{"manager_id", "report_id", "ordinal"}
)

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員と直属の部下への参照を登録します。部下は COPY でまとめて送ります。
// 複数の文を発行するため、呼び出し側で読み書きトランザクションを開始してください。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, first_name, last_name, position, department, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, first_name, last_name, position, department, ARRAY[]::text[], created_at, updated_at
    `,
		e.ID,
		e.FirstName,
		e.LastName,
		e.Position,
		e.Department,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}

	if len(e.DirectReports) == 0 {
		return created, nil
	}

	n, err := exec.CopyFrom(ctx, directReportsTable, directReportsColumns, pgx.CopyFromRows(directReportRows(created.ID, e.DirectReports)))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	if n != int64(len(e.DirectReports)) {
		return nil, fmt.Errorf("postgres: copied %d of %d direct reports for %s", n, len(e.DirectReports), created.ID)
	}
	created.DirectReports = append([]string(nil), e.DirectReports...)

	return created, nil
}

// FindByID は ID で社員を取得します。直属の部下 ID は登録順に並びます。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT e.id,
               e.first_name,
               e.last_name,
               e.position,
               e.department,
               COALESCE(array_agg(r.report_id ORDER BY r.ordinal) FILTER (WHERE r.report_id IS NOT NULL), ARRAY[]::text[]),
               e.created_at,
               e.updated_at
          FROM employees e
          LEFT JOIN employee_direct_reports r ON r.manager_id = e.id
         WHERE e.id = $1
         GROUP BY e.id
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// directReportRows は登録順を ordinal に持つ COPY 用の行です。
func directReportRows(managerID string, reportIDs []string) [][]any {
	rows := make([][]any, len(reportIDs))
	for i, reportID := range reportIDs {
		rows[i] = []any{managerID, reportID, int32(i)}
	}
	return rows
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id            string
		firstName     string
		lastName      string
		position      string
		department    string
		directReports []string
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(
		&id,
		&firstName,
		&lastName,
		&position,
		&department,
		&directReports,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if len(directReports) == 0 {
		directReports = nil
	}

	return &employee.Employee{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Position:      position,
		Department:    department,
		DirectReports: directReports,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmployeeAlreadyExists
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == directReportsReportFKey {
				return employee.ErrDirectReportNotFound
			}
		}
	}

	return err
}
