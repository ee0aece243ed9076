package employee

import "time"

// Employee は社員エンティティです。
// DirectReports は直属の部下の社員 ID を登録順に保持します。
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Position      string
	Department    string
	DirectReports []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone は DirectReports を含めたディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.DirectReports != nil {
		clone.DirectReports = append([]string(nil), e.DirectReports...)
	}
	return &clone
}
