package reporting

import (
	"errors"

	"github.com/ogurasousui/codex-org-chart/internal/core/employee"
)

// ErrBrokenHierarchy は部下として参照されている社員が存在しない場合に返却されます。
var ErrBrokenHierarchy = errors.New("reporting: direct report does not resolve")

// ReportingStructure は社員と、その配下にいる全社員数（直属・間接を含み本人を除く）の組です。
// 永続化されず、要求のたびに算出されます。
type ReportingStructure struct {
	Employee        *employee.Employee
	NumberOfReports int
}
