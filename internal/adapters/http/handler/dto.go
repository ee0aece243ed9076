package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ogurasousui/codex-org-chart/internal/core/compensation"
	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
	"github.com/ogurasousui/codex-org-chart/internal/core/reporting"
)

const dateLayout = "2006-01-02"

// 受け付ける日付形式。タイムゾーン付きでも記載された暦日をそのまま採用します。
var dateInputLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Date は YYYY-MM-DD で入出力される暦日です。
type Date struct {
	time.Time
}

// NewDate は t の暦日を UTC の 0 時として保持する Date を返します。
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON は Date を "YYYY-MM-DD" として出力します。ゼロ値は null です。
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON は日付文字列を解析します。
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("effectiveDate: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}

	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("effectiveDate: unsupported date %q", raw)
}

// EmployeeBody は社員の JSON 表現です。
// 部下は employeeId のみを持つ参照として表現されます。
type EmployeeBody struct {
	EmployeeID    string         `json:"employeeId,omitempty"`
	FirstName     string         `json:"firstName,omitempty"`
	LastName      string         `json:"lastName,omitempty"`
	Position      string         `json:"position,omitempty"`
	Department    string         `json:"department,omitempty"`
	DirectReports []EmployeeBody `json:"directReports,omitempty"`
}

// CompensationBody は報酬の JSON 表現です。
type CompensationBody struct {
	CompensationID string        `json:"compensationId,omitempty"`
	Employee       *EmployeeBody `json:"employee" binding:"required"`
	Salary         float64       `json:"salary"`
	EffectiveDate  Date          `json:"effectiveDate"`
}

// ReportingStructureBody は組織構造の JSON 表現です。
type ReportingStructureBody struct {
	Employee        EmployeeBody `json:"employee"`
	NumberOfReports int          `json:"numberOfReports"`
}

func toEmployeeBody(e *employee.Employee) EmployeeBody {
	if e == nil {
		return EmployeeBody{}
	}
	body := EmployeeBody{
		EmployeeID: e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Position:   e.Position,
		Department: e.Department,
	}
	if len(e.DirectReports) > 0 {
		body.DirectReports = make([]EmployeeBody, 0, len(e.DirectReports))
		for _, id := range e.DirectReports {
			body.DirectReports = append(body.DirectReports, EmployeeBody{EmployeeID: id})
		}
	}
	return body
}

func toCompensationBody(c *compensation.Compensation) CompensationBody {
	emp := toEmployeeBody(c.Employee)
	if emp.EmployeeID == "" {
		emp.EmployeeID = c.EmployeeID
	}
	return CompensationBody{
		CompensationID: c.ID,
		Employee:       &emp,
		Salary:         c.Salary,
		EffectiveDate:  NewDate(c.EffectiveDate),
	}
}

func toReportingStructureBody(rs *reporting.ReportingStructure) ReportingStructureBody {
	return ReportingStructureBody{
		Employee:        toEmployeeBody(rs.Employee),
		NumberOfReports: rs.NumberOfReports,
	}
}

func directReportIDs(refs []EmployeeBody) []string {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.EmployeeID)
	}
	return ids
}

func (b EmployeeBody) toCreateEmployeeInput() employee.CreateEmployeeInput {
	return employee.CreateEmployeeInput{
		FirstName:     b.FirstName,
		LastName:      b.LastName,
		Position:      b.Position,
		Department:    b.Department,
		DirectReports: directReportIDs(b.DirectReports),
	}
}

func (b CompensationBody) toCreateCompensationInput() *compensation.CreateCompensationInput {
	in := &compensation.CreateCompensationInput{
		Salary:        b.Salary,
		EffectiveDate: b.EffectiveDate.Time,
	}
	if b.Employee != nil {
		in.Employee = compensation.EmployeeInput{
			ID:            b.Employee.EmployeeID,
			FirstName:     b.Employee.FirstName,
			LastName:      b.Employee.LastName,
			Position:      b.Employee.Position,
			Department:    b.Employee.Department,
			DirectReports: directReportIDs(b.Employee.DirectReports),
		}
	}
	return in
}
