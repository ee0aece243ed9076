package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
	pgdb "github.com/ogurasousui/codex-org-chart/internal/platform/db/postgres"
)

const compensationColumns = `id, employee_id, salary, effective_date, created_at`

// CompensationRepository は PostgreSQL を利用した報酬レコードの永続化実装です。
type CompensationRepository struct {
	pool pgdb.Queryer
}

// NewCompensationRepository は CompensationRepository を生成します。
func NewCompensationRepository(pool pgdb.Queryer) *CompensationRepository {
	return &CompensationRepository{pool: pool}
}

// Create は報酬レコードを登録します。
func (r *CompensationRepository) Create(ctx context.Context, c *compensation.Compensation) (*compensation.Compensation, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO compensations (id, employee_id, salary, effective_date, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+compensationColumns,
		c.ID,
		c.EmployeeID,
		c.Salary,
		c.EffectiveDate,
		c.CreatedAt,
	)

	created, err := scanCompensation(row)
	if err != nil {
		return nil, translateCompensationPgError(err)
	}
	return created, nil
}

// FindLatestByEmployeeID は社員の最新の報酬レコードを返します。
func (r *CompensationRepository) FindLatestByEmployeeID(ctx context.Context, employeeID string) (*compensation.Compensation, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+compensationColumns+`
          FROM compensations
         WHERE employee_id = $1
         ORDER BY effective_date DESC, created_at DESC, id DESC
         LIMIT 1
    `, employeeID)

	found, err := scanCompensation(row)
	if err != nil {
		return nil, translateCompensationPgError(err)
	}
	return found, nil
}

// ListByEmployeeID は社員の報酬履歴を新しい順に返します。
func (r *CompensationRepository) ListByEmployeeID(ctx context.Context, employeeID string) ([]*compensation.Compensation, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+compensationColumns+`
          FROM compensations
         WHERE employee_id = $1
         ORDER BY effective_date DESC, created_at DESC, id DESC
    `, employeeID)
	if err != nil {
		return nil, translateCompensationPgError(err)
	}
	defer rows.Close()

	history := make([]*compensation.Compensation, 0)
	for rows.Next() {
		c, err := scanCompensation(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateCompensationPgError(err)
	}

	return history, nil
}

func scanCompensation(row pgx.Row) (*compensation.Compensation, error) {
	var (
		id            string
		employeeID    string
		salary        float64
		effectiveDate time.Time
		createdAt     time.Time
	)

	if err := row.Scan(&id, &employeeID, &salary, &effectiveDate, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, compensation.ErrCompensationNotFound
		}
		return nil, err
	}

	return &compensation.Compensation{
		ID:            id,
		EmployeeID:    employeeID,
		Salary:        salary,
		EffectiveDate: effectiveDate.UTC(),
		CreatedAt:     createdAt,
	}, nil
}

func translateCompensationPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return compensation.ErrCompensationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return compensation.ErrAlreadyExists
		case foreignKeyViolationCode:
			return compensation.ErrEmployeeNotFound
		}
	}

	return err
}
