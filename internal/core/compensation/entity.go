package compensation

import (
	"time"

	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// Compensation は社員の報酬レコードです。
// EffectiveDate は UTC の日付（時刻部分はゼロ）として保持されます。
type Compensation struct {
	ID            string
	EmployeeID    string
	Employee      *employee.Employee
	Salary        float64
	EffectiveDate time.Time
	CreatedAt     time.Time
}
