package postgres

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var compensationRowColumns = []string{"id", "employee_id", "salary", "effective_date", "created_at"}

func TestScanCompensation_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanCompensation(row); !errors.Is(err, compensation.ErrCompensationNotFound) {
		t.Fatalf("expected ErrCompensationNotFound, got %v", err)
	}
}

func TestTranslateCompensationPgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateCompensationPgError(&pgconn.PgError{Code: foreignKeyViolationCode}), compensation.ErrEmployeeNotFound) {
		t.Fatalf("expected fk violation to map to ErrEmployeeNotFound")
	}
	if !errors.Is(translateCompensationPgError(&pgconn.PgError{Code: uniqueViolationCode}), compensation.ErrAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrAlreadyExists")
	}
	if translateCompensationPgError(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}

	other := errors.New("other")
	if translateCompensationPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestCompensationRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)
	effective := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compensations")).
		WithArgs("comp-1", "john", 120000.5, effective, now).
		WillReturnRows(pgxmock.NewRows(compensationRowColumns).
			AddRow("comp-1", "john", 120000.5, effective, now))

	created, err := repo.Create(context.Background(), &compensation.Compensation{
		ID:            "comp-1",
		EmployeeID:    "john",
		Salary:        120000.5,
		EffectiveDate: effective,
		CreatedAt:     now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Salary != 120000.5 || !created.EffectiveDate.Equal(effective) {
		t.Fatalf("unexpected compensation %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompensationRepository_SalaryKeepsSubCentPrecision(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)
	effective := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	const salary = 60000.555

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compensations")).
		WithArgs("comp-1", "john", salary, effective, now).
		WillReturnRows(pgxmock.NewRows(compensationRowColumns).
			AddRow("comp-1", "john", salary, effective, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM compensations")).
		WithArgs("john").
		WillReturnRows(pgxmock.NewRows(compensationRowColumns).
			AddRow("comp-1", "john", salary, effective, now))

	created, err := repo.Create(context.Background(), &compensation.Compensation{
		ID:            "comp-1",
		EmployeeID:    "john",
		Salary:        salary,
		EffectiveDate: effective,
		CreatedAt:     now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	found, err := repo.FindLatestByEmployeeID(context.Background(), "john")
	if err != nil {
		t.Fatalf("FindLatestByEmployeeID returned error: %v", err)
	}
	if created.Salary != salary || found.Salary != salary {
		t.Fatalf("expected salary %v, got created=%v found=%v", salary, created.Salary, found.Salary)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// salary は float64 で読み書きするため、列も丸めや桁上限のない倍精度でなければならない。
func TestCompensationsMigration_SalaryColumnIsDoublePrecision(t *testing.T) {
	t.Parallel()

	ddl, err := os.ReadFile("../../../../assets/migrations/000002_create_compensations.up.sql")
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}

	if !regexp.MustCompile(`(?m)^\s*salary\s+DOUBLE PRECISION NOT NULL`).Match(ddl) {
		t.Fatalf("expected salary column to be DOUBLE PRECISION, got:\n%s", ddl)
	}
	if regexp.MustCompile(`(?i)NUMERIC\s*\(`).Match(ddl) {
		t.Fatalf("salary column must not use a fixed-scale NUMERIC")
	}
}

func TestCompensationRepository_Create_UnknownEmployee(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compensations")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	_, err = repo.Create(context.Background(), &compensation.Compensation{ID: "comp-1", EmployeeID: "ghost"})
	if !errors.Is(err, compensation.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestCompensationRepository_FindLatestByEmployeeID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)
	effective := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY effective_date DESC, created_at DESC, id DESC")).
		WithArgs("john").
		WillReturnRows(pgxmock.NewRows(compensationRowColumns).
			AddRow("comp-2", "john", 130000.0, effective, now))

	found, err := repo.FindLatestByEmployeeID(context.Background(), "john")
	if err != nil {
		t.Fatalf("FindLatestByEmployeeID returned error: %v", err)
	}
	if found.ID != "comp-2" || found.EmployeeID != "john" {
		t.Fatalf("unexpected compensation %+v", found)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompensationRepository_FindLatestByEmployeeID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM compensations")).
		WithArgs("paul").
		WillReturnRows(pgxmock.NewRows(compensationRowColumns))

	if _, err := repo.FindLatestByEmployeeID(context.Background(), "paul"); !errors.Is(err, compensation.ErrCompensationNotFound) {
		t.Fatalf("expected ErrCompensationNotFound, got %v", err)
	}
}

func TestCompensationRepository_ListByEmployeeID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)
	now := time.Now().UTC()
	newer := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM compensations")).
		WithArgs("john").
		WillReturnRows(pgxmock.NewRows(compensationRowColumns).
			AddRow("comp-2", "john", 130000.0, newer, now).
			AddRow("comp-1", "john", 120000.0, older, now))

	history, err := repo.ListByEmployeeID(context.Background(), "john")
	if err != nil {
		t.Fatalf("ListByEmployeeID returned error: %v", err)
	}
	if len(history) != 2 || history[0].ID != "comp-2" || history[1].ID != "comp-1" {
		t.Fatalf("unexpected history %+v", history)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompensationRepository_ListByEmployeeID_Empty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewCompensationRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM compensations")).
		WithArgs("paul").
		WillReturnRows(pgxmock.NewRows(compensationRowColumns))

	history, err := repo.ListByEmployeeID(context.Background(), "paul")
	if err != nil {
		t.Fatalf("ListByEmployeeID returned error: %v", err)
	}
	if history == nil || len(history) != 0 {
		t.Fatalf("expected empty non-nil history, got %v", history)
	}
}
